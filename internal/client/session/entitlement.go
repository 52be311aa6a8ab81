package session

import (
	"math"
	"time"

	"github.com/dmitrijs2005/aichef/internal/client/models"
)

// Entitlement checks are pure: they derive everything from the record and the
// supplied wall-clock instant, never from cached derived state.

// HasActiveSubscription reports whether the record carries a subscription that
// is flagged active and expires strictly after now.
func HasActiveSubscription(u *models.User, now time.Time) bool {
	return u != nil &&
		u.Subscription != nil &&
		u.Subscription.Active &&
		u.Subscription.ExpiresAt.After(now)
}

// HasActiveTrial reports whether the record carries a trial window that is
// flagged active and expires strictly after now.
func HasActiveTrial(u *models.User, now time.Time) bool {
	return u != nil &&
		u.TrialPeriod != nil &&
		u.TrialPeriod.Active &&
		u.TrialPeriod.ExpiresAt.After(now)
}

// TrialDaysLeft returns the number of whole days remaining on an active
// trial, rounding up. It is 0 when no trial is active and never negative.
func TrialDaysLeft(u *models.User, now time.Time) int {
	if u == nil || u.TrialPeriod == nil || !u.TrialPeriod.Active {
		return 0
	}
	left := u.TrialPeriod.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// HasPremiumAccess is the single access decision: an active subscription, an
// active trial, or the admin role. Admins always pass regardless of
// subscription/trial records.
func HasPremiumAccess(u *models.User, now time.Time) bool {
	return HasActiveSubscription(u, now) || HasActiveTrial(u, now) || u.IsAdmin()
}
