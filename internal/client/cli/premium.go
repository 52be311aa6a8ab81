package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aichef/internal/client/session"
)

func (a *App) subscribe(ctx context.Context) {
	mgr := session.FromContext(ctx)
	if !mgr.IsAuthenticated() {
		fmt.Println("Not logged in")
		return
	}
	mgr.ActivateSubscription(ctx)
	snap := mgr.Snapshot()
	fmt.Printf("Subscription active until %s\n", snap.User.Subscription.ExpiresAt.Format("2006-01-02"))
}

func (a *App) trial(ctx context.Context) {
	mgr := session.FromContext(ctx)
	if !mgr.IsAuthenticated() {
		fmt.Println("Not logged in")
		return
	}
	mgr.ActivateTrialPeriod(ctx)
	snap := mgr.Snapshot()
	if snap.HasActiveTrial {
		fmt.Printf("Trial active, %d day(s) left\n", snap.TrialDaysLeft)
	} else {
		fmt.Println("Trial not active")
	}
}
