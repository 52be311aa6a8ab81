package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/aichef/internal/client/api"
	"github.com/dmitrijs2005/aichef/internal/client/session"
)

// Login exchanges prompted credentials for an identity record, stores the
// bearer credential, and hands the record to the session manager. The
// credential exchange itself is the only step that can fail; from the
// session manager on, login degrades instead of failing.
func (a *App) Login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	user, token, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Println("Invalid email or password")
		} else {
			log.Printf("Login failed: %v", err)
		}
		return
	}

	if err := a.store.SaveToken(ctx, token); err != nil {
		a.log.Error(ctx, "failed to persist credential", "error", err)
	}

	session.FromContext(ctx).Login(ctx, *user)
	log.Printf("Logged in as %s", user.Email)
}

func (a *App) Logout(ctx context.Context) {
	session.FromContext(ctx).Logout(ctx)
	log.Println("Logged out")
}
