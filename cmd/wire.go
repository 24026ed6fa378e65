package cmd

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	backendhttp "github.com/bnema/spaceo-chat/internal/adapters/backend/http"
	"github.com/bnema/spaceo-chat/internal/adapters/filetype"
	"github.com/bnema/spaceo-chat/internal/adapters/notify"
	"github.com/bnema/spaceo-chat/internal/adapters/render/transcript"
	chainstore "github.com/bnema/spaceo-chat/internal/adapters/store/chain"
	filestore "github.com/bnema/spaceo-chat/internal/adapters/store/file"
	memorystore "github.com/bnema/spaceo-chat/internal/adapters/store/memory"
	tomlstore "github.com/bnema/spaceo-chat/internal/adapters/store/toml"
	"github.com/bnema/spaceo-chat/internal/application"
	"github.com/bnema/spaceo-chat/internal/config"
	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/logging"
	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/bnema/spaceo-chat/internal/version"
	"github.com/rs/zerolog"
)

type app struct {
	cfg          config.Config
	localStore   ports.KeyValueStore
	sessionStore ports.KeyValueStore
	renderer     *transcript.Renderer
	httpClient   *http.Client

	logger   zerolog.Logger
	notifier ports.Notifier
	sessions *application.SessionService
	backend  ports.ChatBackend
	chat     *application.ChatService
	uploads  *application.UploadService
}

func wireApp() (*app, error) {
	v, cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	persistent, err := tomlstore.NewStore(v, ports.SystemClock{})
	if err != nil {
		return nil, fmt.Errorf("wire local storage: %w", err)
	}

	localStore, err := chainstore.NewStoreChecked(persistent, memorystore.NewStore())
	if err != nil {
		return nil, fmt.Errorf("wire local storage chain: %w", err)
	}

	sessionDir := filepath.Join(cfg.SessionsDir, application.ResolveSessionKey(cfg.Session))

	return &app{
		cfg:          cfg,
		localStore:   localStore,
		sessionStore: filestore.NewStore(sessionDir),
		renderer:     transcript.NewRenderer(transcript.RenderOptions{Width: cfg.RenderWidth, Style: cfg.RenderStyle}),
		httpClient:   http.DefaultClient,
	}, nil
}

// bind builds the services that log or notify on the command's stderr.
func (a *app) bind(stderr io.Writer) error {
	a.logger = logging.New(stderr, a.cfg.LogLevel)
	a.notifier = notify.NewTerminal(stderr, a.logger)

	a.sessions = application.NewSessionService(a.localStore, a.sessionStore,
		application.WithDefaultAccounts(a.cfg.DefaultAccounts),
		application.WithSessionLogger(a.logger),
	)

	backend, err := backendhttp.NewClient(a.cfg.APIURL,
		backendhttp.WithHTTPClient(a.httpClient),
		backendhttp.WithUserAgent("spaceo/"+version.Version),
		backendhttp.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("wire chat backend: %w", err)
	}
	a.backend = backend

	a.chat = application.NewChatService(backend, a.sessions, a.logger)
	a.chat.OnChange(func() {
		a.logger.Debug().Str("status", string(a.chat.Status())).Msg("chat state changed")
	})
	a.uploads = application.NewUploadService(application.UploadDeps{
		Backend:  backend,
		Accounts: a.sessions,
		Detector: filetype.NewDetector(),
		Notifier: a.notifier,
		Policy:   domain.NewFileTypePolicy(a.cfg.AllowedTypes),
		Logger:   a.logger,
	})

	return nil
}
