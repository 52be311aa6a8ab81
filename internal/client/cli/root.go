package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/aichef/internal/client/session"
)

func (a *App) getStatus() string {
	snap := a.mgr.Snapshot()
	if snap.User == nil {
		return ""
	}
	s := snap.User.Email
	if snap.HasPremiumAccess {
		s += " premium"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to aichef CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("aichef %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		mgr := session.FromContext(ctx)

		switch cmd {
		case "help":
			if mgr.IsAuthenticated() {
				fmt.Println("Available commands: whoami, profile, editprofile, subscribe, trial, logout, exit")
			} else {
				fmt.Println("Available commands: login, whoami, exit")
			}

		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.whoami(ctx)
		case "profile":
			a.showProfile(ctx)
		case "editprofile":
			a.editProfile(ctx)
		case "subscribe":
			a.subscribe(ctx)
		case "trial":
			a.trial(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
