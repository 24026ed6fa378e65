package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionServiceInitializeSeedsDefaultsOnFirstRun(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(nil)
	session := newInMemoryStore(nil)
	svc := NewSessionService(local, session)

	accountID, err := svc.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("account_id_2"), accountID)
	assert.Equal(t, `["account_id_1"]`, local.values[AvailableAccountsKey])
	assert.Equal(t, "account_id_2", session.values[SessionAccountKey])
}

func TestSessionServiceInitializePopsOneFromNonEmptyPool(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(map[string]string{AvailableAccountsKey: `["a","b","c"]`})
	session := newInMemoryStore(nil)
	svc := NewSessionService(local, session)

	accountID, err := svc.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("c"), accountID)

	pool, err := svc.Pool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountPool{"a", "b"}, pool)
}

func TestSessionServiceInitializeResetsEmptyPool(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(map[string]string{AvailableAccountsKey: `[]`})
	session := newInMemoryStore(nil)
	svc := NewSessionService(local, session)

	accountID, err := svc.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("account_id_2"), accountID)
	assert.Equal(t, `["account_id_1"]`, local.values[AvailableAccountsKey])
}

func TestSessionServiceInitializeReusesSessionAccount(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(map[string]string{AvailableAccountsKey: `["a","b"]`})
	session := newInMemoryStore(map[string]string{SessionAccountKey: "pinned"})
	svc := NewSessionService(local, session)

	for i := 0; i < 3; i++ {
		accountID, err := svc.Initialize(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.AccountID("pinned"), accountID)
	}
	assert.Equal(t, `["a","b"]`, local.values[AvailableAccountsKey])
}

func TestSessionServiceSeparateSessionsRotateThroughPool(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(nil)

	first, err := NewSessionService(local, newInMemoryStore(nil)).Initialize(context.Background())
	require.NoError(t, err)
	second, err := NewSessionService(local, newInMemoryStore(nil)).Initialize(context.Background())
	require.NoError(t, err)
	third, err := NewSessionService(local, newInMemoryStore(nil)).Initialize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.AccountID{"account_id_2", "account_id_1", "account_id_2"}, []domain.AccountID{first, second, third})
}

func TestSessionServiceCustomDefaults(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(newInMemoryStore(nil), newInMemoryStore(nil), WithDefaultAccounts([]domain.AccountID{"x", "y", "z"}))

	accountID, err := svc.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("z"), accountID)
}

func TestSessionServiceInitializeRejectsCorruptPool(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(map[string]string{AvailableAccountsKey: `not-json`})
	session := newInMemoryStore(nil)
	svc := NewSessionService(local, session)

	_, err := svc.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode account pool")
	assert.NotContains(t, session.values, SessionAccountKey)
}

func TestSessionServiceInitializeSurfacesStoreErrors(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(nil)
	local.setErr = errors.New("disk full")
	session := newInMemoryStore(nil)
	svc := NewSessionService(local, session)

	_, err := svc.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "save account pool")
	assert.ErrorContains(t, err, "disk full")
}

func TestSessionServiceEndSessionAndReset(t *testing.T) {
	t.Parallel()

	local := newInMemoryStore(map[string]string{AvailableAccountsKey: `[]`})
	session := newInMemoryStore(map[string]string{SessionAccountKey: "pinned"})
	svc := NewSessionService(local, session)

	require.NoError(t, svc.EndSession(context.Background()))
	_, err := svc.CurrentAccount(context.Background())
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	pool, err := svc.ResetPool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountPool{"account_id_1", "account_id_2"}, pool)
	assert.Equal(t, `["account_id_1","account_id_2"]`, local.values[AvailableAccountsKey])
}

func TestResolveSessionKeyIsStable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ResolveSessionKey("tty", " 42 "), ResolveSessionKey("tty", "42"))
	assert.NotEqual(t, ResolveSessionKey("tty", "42"), ResolveSessionKey("tty", "43"))
	assert.Len(t, ResolveSessionKey("x"), 40)
}
