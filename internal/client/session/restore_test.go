package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/aichef/internal/client/api"
	"github.com/dmitrijs2005/aichef/internal/client/cache"
	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/dmitrijs2005/aichef/internal/logging"
	"github.com/stretchr/testify/require"
)

func seedCachedUser(t *testing.T, store *cache.Store, u *models.User) {
	t.Helper()
	require.NoError(t, store.SaveUser(context.Background(), u))
}

func remoteUserFromWire(t *testing.T, raw string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return &u
}

func TestRestore_NoCacheNoToken_NothingHappens(t *testing.T) {
	fc := &fakeAPI{}
	m, _ := setupManager(t, fc)

	m.Restore(context.Background())

	u, phase := m.Current()
	require.Nil(t, u)
	require.Equal(t, PhaseReconciled, phase)
	require.Empty(t, fc.MeCalls)
}

func TestRestore_CachedUserWithoutToken_ProvisionalStands(t *testing.T) {
	fc := &fakeAPI{}
	m, store := setupManager(t, fc)

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})

	m.Restore(context.Background())

	u, _ := m.Current()
	require.NotNil(t, u)
	require.Equal(t, int64(7), u.ID.Int64())
	require.Empty(t, fc.MeCalls)
}

func TestRestore_CorruptCacheEntry_DroppedAndIgnored(t *testing.T) {
	fc := &fakeAPI{}
	db := setupDB(t)
	store := cache.NewStore(cache.NewSQLiteRepository(db))
	m := NewManager(fc, store, logging.NewTextLogger(io.Discard, slog.LevelDebug))
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO session_cache(key, value) VALUES(?, ?)`, cache.KeyUser, []byte("{oops"))
	require.NoError(t, err)

	m.Restore(ctx)

	u, _ := m.Current()
	require.Nil(t, u)

	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestRestore_ExpiredTokenRefreshedAndRetried(t *testing.T) {
	// The full reconciliation scenario: cached user + "tok1", me(tok1) is 401,
	// refresh mints "tok2", me(tok2) returns the record with a string id.
	fc := &fakeAPI{
		MeSeq: []meResult{
			{err: api.ErrUnauthorized},
			{user: remoteUserFromWire(t, `{"id":"7","email":"a@b.com","role":"user"}`)},
		},
		RefreshTok: "tok2",
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	u, phase := m.Current()
	require.NotNil(t, u)
	require.Equal(t, int64(7), u.ID.Int64())
	require.Equal(t, PhaseReconciled, phase)

	require.Equal(t, []string{"tok1", "tok2"}, fc.MeCalls)
	require.Equal(t, 1, fc.RefreshCalls)

	tok, err := store.LoadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok2", tok)
}

func TestRestore_RefreshFails_ProvisionalStandsAndTokenKept(t *testing.T) {
	fc := &fakeAPI{
		MeSeq:      []meResult{{err: api.ErrUnauthorized}},
		RefreshErr: api.ErrUnavailable,
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	u, phase := m.Current()
	require.NotNil(t, u)
	require.Equal(t, PhaseProvisional, phase)

	tok, err := store.LoadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok1", tok)
}

func TestRestore_RefreshYieldsNoToken_Abandoned(t *testing.T) {
	fc := &fakeAPI{
		MeSeq:      []meResult{{err: api.ErrUnauthorized}},
		RefreshTok: "",
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	require.Len(t, fc.MeCalls, 1)
	tok, err := store.LoadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok1", tok)
}

func TestRestore_DefinitiveUnauthorized_ClearsTokenKeepsUser(t *testing.T) {
	fc := &fakeAPI{
		MeSeq: []meResult{
			{err: api.ErrUnauthorized},
			{err: api.ErrUnauthorized},
		},
		RefreshTok: "tok2",
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	u, _ := m.Current()
	require.NotNil(t, u) // cached record survives

	tok, err := store.LoadToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
}

func TestRestore_TransientError_DegradesToCachedState(t *testing.T) {
	fc := &fakeAPI{
		MeSeq: []meResult{{err: api.ErrUnavailable}},
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	u, phase := m.Current()
	require.NotNil(t, u)
	require.Equal(t, PhaseProvisional, phase)

	tok, err := store.LoadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok1", tok)
}

func TestRestore_MergeKeepsLocalHealthProfileRemoteIdentityWins(t *testing.T) {
	fc := &fakeAPI{
		MeSeq: []meResult{{user: remoteUserFromWire(t,
			`{"id":7,"email":"fresh@b.com","role":"admin","healthProfile":{"notes":"remote"}}`)}},
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{
		ID:            7,
		Email:         "stale@b.com",
		Role:          models.RoleUser,
		HealthProfile: &models.HealthProfile{Notes: "local"},
	})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)

	u, _ := m.Current()
	require.Equal(t, "fresh@b.com", u.Email)
	require.Equal(t, models.RoleAdmin, u.Role)
	require.Equal(t, "local", u.HealthProfile.Notes)

	// merged record is persisted
	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "fresh@b.com", cached.Email)
	require.Equal(t, "local", cached.HealthProfile.Notes)
}

func TestRestore_RunsAtMostOnce(t *testing.T) {
	fc := &fakeAPI{
		MeSeq: []meResult{{user: remoteUserFromWire(t, `{"id":7,"email":"a@b.com","role":"user"}`)}},
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, "tok1"))

	m.Restore(ctx)
	m.Restore(ctx)

	require.Len(t, fc.MeCalls, 1)
}

func TestRestore_StaleResultDiscardedAfterLogout(t *testing.T) {
	// A logout while the identity call is in flight rotates the epoch, so the
	// remote record must not land in the cell afterwards.
	fc := &fakeAPI{
		MeSeq:   []meResult{{user: remoteUserFromWire(t, `{"id":7,"email":"a@b.com","role":"user"}`)}},
		MeBlock: make(chan struct{}),
	}
	m, store := setupManager(t, fc)
	ctx := context.Background()

	seedCachedUser(t, store, &models.User{ID: 7, Email: "a@b.com", Role: models.RoleUser})
	require.NoError(t, store.SaveToken(ctx, "tok1"))

	done := make(chan struct{})
	go func() {
		m.Restore(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fc.meCallCount() == 1 }, time.Second, time.Millisecond)

	m.Logout(ctx)
	close(fc.MeBlock)
	<-done

	u, _ := m.Current()
	require.Nil(t, u)

	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.Nil(t, cached)
}
