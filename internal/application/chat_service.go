package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/rs/zerolog"
)

const FallbackReply = "Sorry, I couldn't understand your request. Please try again. null or empty response received from server."

type AccountResolver interface {
	Initialize(ctx context.Context) (domain.AccountID, error)
}

// ChatService owns the transcript and the submit flow. It is safe for
// concurrent use; overlapping submissions are allowed.
type ChatService struct {
	backend  ports.ChatBackend
	accounts AccountResolver
	logger   zerolog.Logger

	mu       sync.RWMutex
	messages []domain.Message
	inFlight int
	onChange func()
}

func NewChatService(backend ports.ChatBackend, accounts AccountResolver, logger zerolog.Logger) *ChatService {
	return &ChatService{
		backend:  backend,
		accounts: accounts,
		logger:   logger,
	}
}

// OnChange registers a callback fired after every transcript or status
// change. It runs without the service lock held.
func (s *ChatService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}

func (s *ChatService) Transcript() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatService) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.inFlight > 0 {
		return domain.StatusLoading
	}
	return domain.StatusIdle
}

// Submit appends the user message, calls the backend and appends the bot
// reply. Backend failures are appended as bot messages and also returned.
func (s *ChatService) Submit(ctx context.Context, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	s.begin(domain.UserMessage(text))

	reply, err := s.exchange(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("chat request failed")
		message := domain.BotMessage(err.Error(), false)
		s.finish(message)
		return message, err
	}

	var message domain.Message
	if reply.Text() == "" {
		message = domain.BotMessage(FallbackReply, false)
	} else {
		message = domain.BotMessage(reply.Text(), reply.IsInterrupted)
	}
	s.finish(message)

	return message, nil
}

func (s *ChatService) exchange(ctx context.Context, text string) (domain.ChatReply, error) {
	accountID, err := s.accounts.Initialize(ctx)
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("resolve session account: %w", err)
	}

	s.logger.Debug().Str("account_id", string(accountID)).Int("length", len(text)).Msg("sending chat message")

	return s.backend.SendMessage(ctx, domain.ChatRequest{Message: text, AccountID: accountID})
}

func (s *ChatService) begin(message domain.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.inFlight++
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *ChatService) finish(message domain.Message) {
	s.mu.Lock()
	if message.Text != "" {
		s.messages = append(s.messages, message)
	}
	if s.inFlight > 0 {
		s.inFlight--
	}
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}
