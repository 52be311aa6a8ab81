package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aichef/internal/client/session"
)

func (a *App) whoami(ctx context.Context) {
	snap := session.FromContext(ctx).Snapshot()

	if snap.User == nil {
		fmt.Println("Not logged in")
		return
	}

	fmt.Printf("User: %s (id %d, role %s)\n", snap.User.Email, snap.User.ID.Int64(), snap.User.Role)
	if snap.Phase == session.PhaseProvisional {
		fmt.Println("Session: provisional (not yet validated with the server)")
	} else {
		fmt.Println("Session: reconciled")
	}
	fmt.Printf("Premium access: %v\n", snap.HasPremiumAccess)
	fmt.Printf("  subscription active: %v\n", snap.HasActiveSubscription)
	fmt.Printf("  trial active: %v", snap.HasActiveTrial)
	if snap.HasActiveTrial {
		fmt.Printf(" (%d day(s) left)", snap.TrialDaysLeft)
	}
	fmt.Println()
	if snap.IsAdmin {
		fmt.Println("  admin: yes")
	}
}
