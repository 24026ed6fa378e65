package application

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/rs/zerolog"
)

const (
	AvailableAccountsKey = "availableAccountIds"
	SessionAccountKey    = "sessionAccountId"
)

// SessionService pins one account id from the shared pool to the current
// terminal session. The local store outlives sessions; the session store
// does not.
type SessionService struct {
	local    ports.KeyValueStore
	session  ports.KeyValueStore
	defaults []domain.AccountID
	logger   zerolog.Logger
}

type SessionOption func(*SessionService)

func WithDefaultAccounts(ids []domain.AccountID) SessionOption {
	return func(s *SessionService) {
		if len(ids) > 0 {
			s.defaults = append([]domain.AccountID(nil), ids...)
		}
	}
}

func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

func NewSessionService(local, session ports.KeyValueStore, opts ...SessionOption) *SessionService {
	s := &SessionService{
		local:    local,
		session:  session,
		defaults: append([]domain.AccountID(nil), domain.DefaultAccountIDs...),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ResolveSessionKey hashes a terminal fingerprint into a stable directory
// friendly session key.
func ResolveSessionKey(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed = append(trimmed, strings.TrimSpace(part))
	}
	hash := sha1.Sum([]byte(strings.Join(trimmed, "|")))
	return hex.EncodeToString(hash[:])
}

// Initialize returns the session account, assigning one from the pool on
// the first call of a session.
func (s *SessionService) Initialize(ctx context.Context) (domain.AccountID, error) {
	current, err := s.CurrentAccount(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, domain.ErrKeyNotFound) {
		return "", err
	}

	pool, err := s.Pool(ctx)
	if err != nil {
		return "", err
	}

	accountID, err := pool.Pop(s.defaults)
	if err != nil {
		return "", err
	}

	if err := s.savePool(ctx, pool); err != nil {
		return "", err
	}
	if err := s.session.Set(ctx, SessionAccountKey, string(accountID)); err != nil {
		return "", fmt.Errorf("save session account: %w", err)
	}

	s.logger.Info().
		Str("account_id", string(accountID)).
		Int("remaining", len(pool)).
		Msg("assigned session account")

	return accountID, nil
}

func (s *SessionService) CurrentAccount(ctx context.Context) (domain.AccountID, error) {
	raw, err := s.session.Get(ctx, SessionAccountKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", err
		}
		return "", fmt.Errorf("load session account: %w", err)
	}

	accountID := domain.AccountID(strings.TrimSpace(raw))
	if accountID.IsZero() {
		return "", fmt.Errorf("session account: %w", domain.ErrKeyNotFound)
	}

	return accountID, nil
}

// Pool returns the persisted pool, or the defaults when nothing has been
// stored yet.
func (s *SessionService) Pool(ctx context.Context) (domain.AccountPool, error) {
	raw, err := s.local.Get(ctx, AvailableAccountsKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.NewAccountPool(s.defaults), nil
		}
		return nil, fmt.Errorf("load account pool: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode account pool: %w", err)
	}

	return domain.AccountPoolFromStrings(ids), nil
}

func (s *SessionService) ResetPool(ctx context.Context) (domain.AccountPool, error) {
	pool := domain.NewAccountPool(s.defaults)
	if err := s.savePool(ctx, pool); err != nil {
		return nil, err
	}

	return pool, nil
}

// EndSession forgets the session account. The id is not returned to the
// pool.
func (s *SessionService) EndSession(ctx context.Context) error {
	if err := s.session.Delete(ctx, SessionAccountKey); err != nil {
		return fmt.Errorf("delete session account: %w", err)
	}

	return nil
}

func (s *SessionService) savePool(ctx context.Context, pool domain.AccountPool) error {
	encoded, err := json.Marshal(pool.Strings())
	if err != nil {
		return fmt.Errorf("encode account pool: %w", err)
	}
	if err := s.local.Set(ctx, AvailableAccountsKey, string(encoded)); err != nil {
		return fmt.Errorf("save account pool: %w", err)
	}

	return nil
}
