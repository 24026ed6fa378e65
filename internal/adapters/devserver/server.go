package devserver

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxUploadSize     = 32 << 20
	uploadDirMode     = 0o755
	uploadFileMode    = 0o644
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// AllowedExtensions is the upload allow-list, checked as a case-sensitive
// suffix of the uploaded file name.
var AllowedExtensions = []string{".jpeg", ".jpg", ".png", ".pdf", ".txt", ".csv"}

// Responder produces a chat reply. interrupted is the state recorded for the
// account after its previous reply.
type Responder func(ctx context.Context, message string, accountID string, interrupted bool) (string, bool, error)

// EchoResponder repeats the message. A message ending in "?" leaves the
// conversation interrupted until the next message.
func EchoResponder(_ context.Context, message string, _ string, interrupted bool) (string, bool, error) {
	trimmed := strings.TrimSpace(message)
	if interrupted {
		return fmt.Sprintf("Thanks, noted: **%s**", trimmed), false, nil
	}
	if strings.HasSuffix(trimmed, "?") {
		return fmt.Sprintf("Could you tell me more about **%s**", strings.TrimSuffix(trimmed, "?")), true, nil
	}
	return fmt.Sprintf("You said: **%s**", trimmed), false, nil
}

// Server is a local stand-in for the chat backend.
type Server struct {
	uploadDir string
	responder Responder
	logger    zerolog.Logger

	mu          sync.Mutex
	interrupted map[string]bool
}

type Option func(*Server)

func WithResponder(responder Responder) Option {
	return func(s *Server) {
		if responder != nil {
			s.responder = responder
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(uploadDir string, opts ...Option) *Server {
	s := &Server{
		uploadDir:   uploadDir,
		responder:   EchoResponder,
		logger:      zerolog.Nop(),
		interrupted: map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/chat/", s.handleChat)
	r.HandleFunc("/upload-file/", s.handleUpload)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("upload_dir", s.uploadDir).Msg("dev backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown dev backend: %w", err)
		}
		return nil
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id"`
}

type chatResponse struct {
	Response      string `json:"response"`
	IsInterrupted bool   `json:"is_interrupted"`
}

type uploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"file_name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Invalid request method"})
		return
	}

	var request chatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	s.logger.Info().Str("account_id", request.AccountID).Int("length", len(request.Message)).Msg("received message")

	s.mu.Lock()
	interrupted := s.interrupted[request.AccountID]
	s.mu.Unlock()

	response, interrupted, err := s.responder(r.Context(), request.Message, request.AccountID, interrupted)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", request.AccountID).Msg("responder failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	s.interrupted[request.AccountID] = interrupted
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{Response: response, IsInterrupted: interrupted})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	accountID := r.FormValue("account_id")
	if accountID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No account_id provided"})
		return
	}

	name := filepath.Base(header.Filename)
	if !hasAllowedExtension(name) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Invalid file type. Allowed types: " + strings.Join(AllowedExtensions, ", "),
		})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}

	replaced, err := s.store(name, content)
	if err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("store upload")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to store file"})
		return
	}

	s.logger.Info().Str("file", name).Str("account_id", accountID).Bool("written", replaced).Msg("file uploaded")
	writeJSON(w, http.StatusOK, uploadResponse{Message: "File uploaded successfully", FileName: name})
}

// store writes content unless a file with the same name and checksum is
// already present. It reports whether the file was written.
func (s *Server) store(name string, content []byte) (bool, error) {
	if err := os.MkdirAll(s.uploadDir, uploadDirMode); err != nil {
		return false, fmt.Errorf("create upload dir: %w", err)
	}

	dest := filepath.Join(s.uploadDir, name)
	existing, err := os.ReadFile(dest)
	switch {
	case err == nil:
		if checksum(existing) == checksum(content) {
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("read existing upload: %w", err)
	}

	if err := os.WriteFile(dest, content, uploadFileMode); err != nil {
		return false, fmt.Errorf("write upload: %w", err)
	}
	return true, nil
}

func checksum(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

func hasAllowedExtension(name string) bool {
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
