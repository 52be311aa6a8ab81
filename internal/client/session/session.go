// Package session owns the in-memory user record and everything that is
// allowed to change it: login/logout, partial updates, health-profile
// persistence, subscription and trial activation, and startup restoration
// against the remote authority.
//
// All remote-call failures here fail soft: they are logged and degraded to
// the best locally available state, never propagated to callers. Consumers
// depend on that contract.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/aichef/internal/client/api"
	"github.com/dmitrijs2005/aichef/internal/client/cache"
	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/dmitrijs2005/aichef/internal/logging"
	"github.com/google/uuid"
)

// Phase tells consumers whether the current record has been validated
// against the remote authority yet.
type Phase int

const (
	// PhaseProvisional: the record came from the local cache and has not
	// been reconciled with the authority.
	PhaseProvisional Phase = iota
	// PhaseReconciled: restoration has finished; the record is the best
	// available truth (which may still be the cached one if the authority
	// was unreachable).
	PhaseReconciled
)

// Durations of the access windows.
const (
	adminSubscriptionYears = 1
	subscriptionTermMonths = 1
	trialTermDays          = 3
)

// Manager is the single owned state cell for the session. All mutation goes
// through its named operations; Current/Snapshot hand out copies only.
//
// Each login/logout rotates the session epoch. Async flows capture the epoch
// before awaiting the network and discard their result if it no longer
// matches, so a late-arriving completion can never resurrect a session that
// was ended while it was in flight.
type Manager struct {
	api   api.Client
	store *cache.Store
	log   logging.Logger
	now   func() time.Time

	mu          sync.Mutex
	user        *models.User
	phase       Phase
	epoch       uuid.UUID
	restoreOnce sync.Once
}

func NewManager(apiClient api.Client, store *cache.Store, log logging.Logger) *Manager {
	return &Manager{
		api:   apiClient,
		store: store,
		log:   log,
		now:   time.Now,
		epoch: uuid.New(),
	}
}

// Current returns a copy of the current user record (nil if no session) and
// the reconciliation phase.
func (m *Manager) Current() (*models.User, Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone(), m.phase
}

// IsAuthenticated reports whether a user record is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// Snapshot is a point-in-time view of the session and every derived
// entitlement, evaluated at the moment it was taken.
type Snapshot struct {
	User                  *models.User
	Phase                 Phase
	IsAuthenticated       bool
	IsAdmin               bool
	HasActiveSubscription bool
	HasActiveTrial        bool
	HasPremiumAccess      bool
	TrialDaysLeft         int
}

// Snapshot derives all entitlements from the current record and wall clock.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	u := m.user.Clone()
	phase := m.phase
	m.mu.Unlock()

	now := m.now()
	return Snapshot{
		User:                  u,
		Phase:                 phase,
		IsAuthenticated:       u != nil,
		IsAdmin:               u.IsAdmin(),
		HasActiveSubscription: HasActiveSubscription(u, now),
		HasActiveTrial:        HasActiveTrial(u, now),
		HasPremiumAccess:      HasPremiumAccess(u, now),
		TrialDaysLeft:         TrialDaysLeft(u, now),
	}
}

// Login establishes a session from a full identity record. It loads the
// user's health profile from the authority, falling back to an empty default
// when that fails, and synthesizes a one-year premium subscription for admin
// accounts. Login never fails: every remote error degrades to the raw input
// record (admin synthesis still applied).
func (m *Manager) Login(ctx context.Context, identity models.User) {
	m.mu.Lock()
	m.epoch = uuid.New()
	epoch := m.epoch
	m.mu.Unlock()

	record := identity.Clone()

	hp, err := m.api.HealthProfile(ctx, record.ID.Int64())
	if err != nil {
		m.log.Warn(ctx, "health profile fetch failed, using default", "user_id", record.ID.Int64(), "error", err)
		record.HealthProfile = models.DefaultHealthProfile()
	} else {
		record.HealthProfile = hp
	}

	if record.IsAdmin() {
		now := m.now()
		record.Subscription = &models.Subscription{
			Active:    true,
			ExpiresAt: now.AddDate(adminSubscriptionYears, 0, 0),
			Plan:      models.PlanPremium,
		}
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Warn(ctx, "discarding stale login result", "user_id", record.ID.Int64())
		return
	}
	m.user = record
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, record); err != nil {
		m.log.Error(ctx, "failed to persist user record on login", "error", err)
	}
}

// Logout ends the session: it notifies the authority best-effort (so the
// server can drop its refresh state), clears the in-memory record, rotates
// the epoch, and removes both cache entries. The remote call can neither
// fail nor stall the local logout.
func (m *Manager) Logout(ctx context.Context) {
	go func() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.api.Logout(logoutCtx); err != nil {
			m.log.Warn(logoutCtx, "remote logout failed", "error", err)
		}
	}()

	m.mu.Lock()
	m.user = nil
	m.phase = PhaseReconciled
	m.epoch = uuid.New()
	m.mu.Unlock()

	if err := m.store.DeleteUser(ctx); err != nil {
		m.log.Error(ctx, "failed to remove cached user record on logout", "error", err)
	}
	if err := m.store.DeleteToken(ctx); err != nil {
		m.log.Error(ctx, "failed to remove cached credential on logout", "error", err)
	}
}

// UpdateUser shallow-merges a partial record into the current one and
// persists the result. No-op without a session.
func (m *Manager) UpdateUser(ctx context.Context, patch models.UserPatch) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	m.user.Apply(patch)
	record := m.user.Clone()
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, record); err != nil {
		m.log.Error(ctx, "failed to persist user record on update", "error", err)
	}
}

// UpdateHealthProfile saves the profile to the authority and merges it into
// the current record. On remote failure the merge still happens and the
// record is persisted locally, so the change is never silently lost; the
// merged record is persisted on the success path too, keeping cache and
// memory convergent. No-op without a session.
func (m *Manager) UpdateHealthProfile(ctx context.Context, hp models.HealthProfile) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	epoch := m.epoch
	userID := m.user.ID.Int64()
	m.mu.Unlock()

	if err := m.api.SaveHealthProfile(ctx, userID, &hp); err != nil {
		m.log.Warn(ctx, "health profile save failed, keeping local copy", "user_id", userID, "error", err)
	}

	m.mu.Lock()
	if m.epoch != epoch || m.user == nil {
		m.mu.Unlock()
		m.log.Warn(ctx, "discarding stale health profile result", "user_id", userID)
		return
	}
	m.user.HealthProfile = &hp
	record := m.user.Clone()
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, record); err != nil {
		m.log.Error(ctx, "failed to persist user record after profile update", "error", err)
	}
}

// ActivateSubscription grants a premium subscription expiring one calendar
// month from now. No-op without a session.
func (m *Manager) ActivateSubscription(ctx context.Context) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	m.user.Subscription = &models.Subscription{
		Active:    true,
		ExpiresAt: m.now().AddDate(0, subscriptionTermMonths, 0),
		Plan:      models.PlanPremium,
	}
	record := m.user.Clone()
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, record); err != nil {
		m.log.Error(ctx, "failed to persist user record after subscription activation", "error", err)
	}
}

// ActivateTrialPeriod starts the 3-day trial window. Activating while a
// trial is already flagged active is a logged no-op, not an error, so the
// window can never be extended by repeat calls. No-op without a session.
func (m *Manager) ActivateTrialPeriod(ctx context.Context) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	if m.user.TrialPeriod != nil && m.user.TrialPeriod.Active {
		m.mu.Unlock()
		m.log.Info(ctx, "trial period already activated")
		return
	}
	now := m.now()
	m.user.TrialPeriod = &models.TrialPeriod{
		Active:    true,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, trialTermDays),
	}
	record := m.user.Clone()
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, record); err != nil {
		m.log.Error(ctx, "failed to persist user record after trial activation", "error", err)
	}
}
