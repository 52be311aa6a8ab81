package cache

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(NewSQLiteRepository(setupDB(t)))
}

func TestStore_LoadUser_Empty(t *testing.T) {
	s := setupStore(t)

	u, err := s.LoadUser(context.Background())
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestStore_SaveAndLoadUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	in := &models.User{
		ID:    7,
		Email: "a@b.com",
		Role:  models.RoleUser,
		HealthProfile: &models.HealthProfile{
			Conditions: []string{"c1"},
			Notes:      "n",
		},
	}
	require.NoError(t, s.SaveUser(ctx, in))

	out, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestStore_LoadUser_CorruptEntry(t *testing.T) {
	db := setupDB(t)
	s := NewStore(NewSQLiteRepository(db))
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO session_cache(key, value) VALUES(?, ?)`, KeyUser, []byte("{not json"))
	require.NoError(t, err)

	u, err := s.LoadUser(ctx)
	require.Nil(t, u)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tok, err := s.LoadToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, s.SaveToken(ctx, "tok1"))
	tok, err = s.LoadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok1", tok)

	require.NoError(t, s.DeleteToken(ctx))
	tok, err = s.LoadToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestStore_DeleteUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, &models.User{ID: 1, Email: "a@b.com", Role: models.RoleUser}))
	require.NoError(t, s.DeleteUser(ctx))

	u, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.Nil(t, u)
}
