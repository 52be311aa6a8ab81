package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/dmitrijs2005/aichef/internal/client/session"
)

func (a *App) showProfile(ctx context.Context) {
	user, _ := session.FromContext(ctx).Current()
	if user == nil {
		fmt.Println("Not logged in")
		return
	}
	hp := user.HealthProfile
	if hp == nil {
		fmt.Println("No health profile")
		return
	}
	fmt.Printf("Conditions:           %s\n", strings.Join(hp.Conditions, ", "))
	fmt.Printf("Dietary restrictions: %s\n", strings.Join(hp.DietaryRestrictions, ", "))
	fmt.Printf("Allergies:            %s\n", strings.Join(hp.Allergies, ", "))
	fmt.Printf("Notes:                %s\n", hp.Notes)
}

// editProfile prompts for a full health profile and saves it through the
// session manager: server first, local cache as a fallback.
func (a *App) editProfile(ctx context.Context) {
	mgr := session.FromContext(ctx)
	if !mgr.IsAuthenticated() {
		fmt.Println("Not logged in")
		return
	}

	conditions, err := GetList(a.reader, "Conditions (comma-separated)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	restrictions, err := GetList(a.reader, "Dietary restrictions (comma-separated)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	allergies, err := GetList(a.reader, "Allergies (comma-separated)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	notes, err := GetSimpleText(a.reader, "Notes", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	mgr.UpdateHealthProfile(ctx, models.HealthProfile{
		Conditions:          conditions,
		DietaryRestrictions: restrictions,
		Allergies:           allergies,
		Notes:               notes,
	})
	fmt.Println("Health profile updated")
}
