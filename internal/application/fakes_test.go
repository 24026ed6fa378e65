package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/ports"
)

type inMemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newInMemoryStore(values map[string]string) *inMemoryStore {
	if values == nil {
		values = map[string]string{}
	}
	return &inMemoryStore{values: values}
}

func (s *inMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, domain.ErrKeyNotFound)
	}
	return value, nil
}

func (s *inMemoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *inMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

type fakeBackend struct {
	mu        sync.Mutex
	reply     domain.ChatReply
	err       error
	uploadErr map[string]error
	requests  []domain.ChatRequest
	uploads   []domain.UploadFile
	accounts  []domain.AccountID
	gate      chan struct{}
}

func (b *fakeBackend) SendMessage(ctx context.Context, request domain.ChatRequest) (domain.ChatReply, error) {
	b.mu.Lock()
	b.requests = append(b.requests, request)
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.ChatReply{}, ctx.Err()
		}
	}

	return b.reply, b.err
}

func (b *fakeBackend) UploadFile(_ context.Context, accountID domain.AccountID, file domain.UploadFile) (domain.UploadReceipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.uploads = append(b.uploads, file)
	b.accounts = append(b.accounts, accountID)
	if err := b.uploadErr[file.Name]; err != nil {
		return domain.UploadReceipt{}, err
	}
	return domain.UploadReceipt{Message: "File uploaded successfully", FileName: file.Name}, nil
}

type staticAccounts struct {
	id  domain.AccountID
	err error
}

func (a staticAccounts) Initialize(context.Context) (domain.AccountID, error) {
	return a.id, a.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []ports.Toast
}

func (n *recordingNotifier) Notify(toast ports.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.toasts = append(n.toasts, toast)
}

func (n *recordingNotifier) byLevel(level ports.ToastLevel) []ports.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []ports.Toast
	for _, toast := range n.toasts {
		if toast.Level == level {
			out = append(out, toast)
		}
	}
	return out
}

type extensionDetector struct{}

func (extensionDetector) Detect(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".pdf":
		return "application/pdf", nil
	case ".txt":
		return "text/plain; charset=utf-8", nil
	case ".exe":
		return "application/x-msdownload", nil
	default:
		return "", errors.New("unknown extension")
	}
}

func strPtr(value string) *string {
	return &value
}
