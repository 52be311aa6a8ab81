// Package api implements the HTTP client for the remote authority. The
// contract is fixed: bearer-authenticated identity lookup, cookie-backed
// credential refresh, best-effort logout, and per-user health profiles.
package api

import (
	"context"

	"github.com/dmitrijs2005/aichef/internal/client/models"
)

// Client is the remote authority as seen by the session layer.
//
// Error contract:
//   - ErrUnauthorized: the presented credential (or login) was rejected.
//   - ErrUnavailable: transport failure or unexpected response; callers fall
//     back to locally cached state.
type Client interface {
	// Login exchanges credentials for an identity record and a bearer
	// credential.
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// Me returns the user record for the given bearer credential.
	Me(ctx context.Context, token string) (*models.User, error)
	// Refresh mints a new bearer credential using the HTTP-only refresh
	// cookie held by the client's cookie jar. An empty credential with a nil
	// error means the server answered 2xx without a token.
	Refresh(ctx context.Context) (string, error)
	// Logout invalidates the server-side refresh state.
	Logout(ctx context.Context) error
	// HealthProfile fetches the health profile for a user id.
	HealthProfile(ctx context.Context, userID int64) (*models.HealthProfile, error)
	// SaveHealthProfile persists the health profile for a user id.
	SaveHealthProfile(ctx context.Context, userID int64, hp *models.HealthProfile) error
}
