package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/rs/zerolog"
)

const dismissHint = "Click to dismiss"

type UploadState struct {
	Uploading bool
	Success   bool
	Error     string
}

type Rejection struct {
	Path string
	Err  error
}

type DropResult struct {
	Queued   []domain.UploadFile
	Rejected []Rejection
	Uploaded []domain.UploadReceipt
	Failed   []Rejection
}

// UploadService validates dropped files, remembers every accepted name and
// uploads the pending ones one at a time.
type UploadService struct {
	backend  ports.ChatBackend
	accounts AccountResolver
	detector ports.FileTypeDetector
	notifier ports.Notifier
	policy   domain.FileTypePolicy
	logger   zerolog.Logger

	mu      sync.Mutex
	tracked []domain.UploadFile
	pending []domain.UploadFile
	state   UploadState
}

type UploadDeps struct {
	Backend  ports.ChatBackend
	Accounts AccountResolver
	Detector ports.FileTypeDetector
	Notifier ports.Notifier
	Policy   domain.FileTypePolicy
	Logger   zerolog.Logger
}

func NewUploadService(deps UploadDeps) *UploadService {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}

	return &UploadService{
		backend:  deps.Backend,
		accounts: deps.Accounts,
		detector: deps.Detector,
		notifier: notifier,
		policy:   deps.Policy,
		logger:   deps.Logger,
	}
}

// Drop queues every acceptable path and then flushes the queue.
func (s *UploadService) Drop(ctx context.Context, paths ...string) (DropResult, error) {
	var result DropResult

	for _, path := range paths {
		file, err := s.enqueue(path)
		if err != nil {
			s.logger.Info().Err(err).Str("path", path).Msg("rejected dropped file")
			result.Rejected = append(result.Rejected, Rejection{Path: path, Err: err})
			s.notifier.Notify(ports.Toast{Level: ports.ToastDanger, Title: rejectionTitle(err), Message: dismissHint})
			continue
		}
		result.Queued = append(result.Queued, file)
	}

	uploaded, failed, err := s.Flush(ctx)
	result.Uploaded = uploaded
	result.Failed = failed

	return result, err
}

// Flush uploads the pending queue sequentially. Individual upload failures
// are reported through the notifier and the returned failures; the error
// return is reserved for a missing session account.
func (s *UploadService) Flush(ctx context.Context) ([]domain.UploadReceipt, []Rejection, error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil, nil, nil
	}

	accountID, err := s.accounts.Initialize(ctx)
	if err != nil {
		s.mu.Lock()
		s.pending = append(pending, s.pending...)
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("resolve session account: %w", err)
	}

	var uploaded []domain.UploadReceipt
	var failed []Rejection
	for _, file := range pending {
		s.setState(UploadState{Uploading: true})

		receipt, err := s.backend.UploadFile(ctx, accountID, file)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", file.Name).Msg("upload failed")
			s.setState(UploadState{Error: err.Error()})
			failed = append(failed, Rejection{Path: file.Path, Err: err})
			s.notifier.Notify(ports.Toast{Level: ports.ToastDanger, Title: err.Error(), Message: dismissHint})
			continue
		}

		s.logger.Info().Str("file", file.Name).Str("account_id", string(accountID)).Msg("uploaded file")
		s.setState(UploadState{Success: true})
		uploaded = append(uploaded, receipt)
		s.notifier.Notify(ports.Toast{Level: ports.ToastSuccess, Title: receipt.Message, Message: dismissHint})
	}

	return uploaded, failed, nil
}

func (s *UploadService) State() UploadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *UploadService) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tracked))
	for _, file := range s.tracked {
		names = append(names, file.Name)
	}
	return names
}

func (s *UploadService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

func (s *UploadService) enqueue(path string) (domain.UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("stat dropped file: %w", err)
	}
	if info.IsDir() {
		return domain.UploadFile{}, fmt.Errorf("%s is a directory: %w", path, domain.ErrFileTypeNotAllowed)
	}

	mimeType, err := s.detector.Detect(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("detect file type: %w", err)
	}
	if !s.policy.Allows(mimeType) {
		return domain.UploadFile{}, fmt.Errorf("%s (%s): %w", info.Name(), mimeType, domain.ErrFileTypeNotAllowed)
	}

	file := domain.UploadFile{
		Name: filepath.Base(path),
		Type: domain.NormalizeMIMEType(mimeType),
		Path: path,
		Size: info.Size(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tracked {
		if existing.Name == file.Name {
			return domain.UploadFile{}, fmt.Errorf("%s: %w", file.Name, domain.ErrFileAlreadyTracked)
		}
	}
	s.tracked = append(s.tracked, file)
	s.pending = append(s.pending, file)

	return file, nil
}

func (s *UploadService) setState(state UploadState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func rejectionTitle(err error) string {
	switch {
	case errors.Is(err, domain.ErrFileTypeNotAllowed):
		return "File type not allowed"
	case errors.Is(err, domain.ErrFileAlreadyTracked):
		return "File already uploaded"
	default:
		return err.Error()
	}
}
