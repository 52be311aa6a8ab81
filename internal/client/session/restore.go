package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/aichef/internal/client/api"
	"github.com/dmitrijs2005/aichef/internal/client/cache"
	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/google/uuid"
)

// Restore recovers the session after a restart. It runs at most once per
// Manager, is meant to be launched in its own goroutine so startup is never
// blocked, and never returns an error: every failure is logged and degrades
// to whatever was cached.
//
// Flow:
//  1. Load the cached user record and show it immediately (provisional).
//     A corrupt entry is dropped and restoration continues without it.
//  2. Without a cached bearer credential there is nothing to reconcile.
//  3. Validate the credential against the authority; on 401, run the refresh
//     flow and retry once with the freshly minted credential.
//  4. On success, merge the remote record over the provisional one (remote
//     wins, local health profile is kept) and persist the result.
//  5. On a definitive 401 the credential is dropped from the cache; the
//     cached user record is left alone.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		m.restore(ctx)
	})
}

func (m *Manager) restore(ctx context.Context) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	cached, err := m.store.LoadUser(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrCorrupt) {
			m.log.Warn(ctx, "dropping corrupt cached user record", "error", err)
			if derr := m.store.DeleteUser(ctx); derr != nil {
				m.log.Error(ctx, "failed to drop corrupt cached user record", "error", derr)
			}
		} else {
			m.log.Error(ctx, "failed to read cached user record", "error", err)
		}
		cached = nil
	}

	if cached != nil {
		m.mu.Lock()
		if m.epoch == epoch {
			m.user = cached
		}
		m.mu.Unlock()
	}

	token, err := m.store.LoadToken(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to read cached credential", "error", err)
		return
	}
	if token == "" {
		m.markReconciled(epoch)
		return
	}

	remote, err := m.api.Me(ctx, token)
	if errors.Is(err, api.ErrUnauthorized) {
		newToken, rerr := m.api.Refresh(ctx)
		if rerr != nil || newToken == "" {
			m.log.Warn(ctx, "credential refresh failed, keeping provisional state", "error", rerr)
			return
		}
		m.mu.Lock()
		if m.epoch != epoch {
			m.mu.Unlock()
			m.log.Warn(ctx, "discarding stale restoration result")
			return
		}
		m.mu.Unlock()
		if serr := m.store.SaveToken(ctx, newToken); serr != nil {
			m.log.Error(ctx, "failed to persist refreshed credential", "error", serr)
		}
		remote, err = m.api.Me(ctx, newToken)
	}

	switch {
	case err == nil:
		// fall through to the merge below
	case errors.Is(err, api.ErrUnauthorized):
		// No valid session on the authority at all. Drop the credential but
		// keep the cached record so the UI still has something to show.
		m.log.Info(ctx, "no valid remote session, clearing cached credential")
		if derr := m.store.DeleteToken(ctx); derr != nil {
			m.log.Error(ctx, "failed to remove cached credential", "error", derr)
		}
		m.markReconciled(epoch)
		return
	default:
		m.log.Warn(ctx, "session restoration failed, keeping provisional state", "error", err)
		return
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Warn(ctx, "discarding stale restoration result")
		return
	}
	merged := models.MergeRemote(m.user, remote)
	m.user = merged
	m.phase = PhaseReconciled
	m.mu.Unlock()

	if serr := m.store.SaveUser(ctx, merged); serr != nil {
		m.log.Error(ctx, "failed to persist reconciled user record", "error", serr)
	}
	m.log.Info(ctx, "session restored", "user_id", merged.ID.Int64())
}

func (m *Manager) markReconciled(epoch uuid.UUID) {
	m.mu.Lock()
	if m.epoch == epoch {
		m.phase = PhaseReconciled
	}
	m.mu.Unlock()
}
