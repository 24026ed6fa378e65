package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "SPACEO"
	configDir  = ".spaceo"
	configName = "config"
	configType = "toml"

	KeyAPIURL          = "api_url"
	KeyDefaultAccounts = "accounts.defaults"
	KeyStoragePath     = "storage.path"
	KeySessionsDir     = "sessions.dir"
	KeySession         = "session"
	KeyAllowedTypes    = "upload.allowed_types"
	KeyLogLevel        = "log.level"
	KeyRenderWidth     = "render.width"
	KeyRenderStyle     = "render.style"
	KeyDevListen       = "devserver.listen"
	KeyDevUploadDir    = "devserver.upload_dir"

	DefaultAPIURL = "http://localhost:8000"
)

type Config struct {
	APIURL          string
	DefaultAccounts []domain.AccountID
	SessionsDir     string
	// Session identifies the terminal session; SPACEO_SESSION overrides the
	// parent process id.
	Session      string
	AllowedTypes []string
	LogLevel     string
	RenderWidth  int
	RenderStyle  string
	DevListen    string
	DevUploadDir string
}

// Load reads ~/.spaceo/config.toml when present and applies SPACEO_*
// environment overrides. The returned viper instance is shared with the
// storage adapters.
func Load() (*viper.Viper, Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	base := filepath.Join(homeDir, configDir)

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(base)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, base)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return v, fromViper(v), nil
}

func setDefaults(v *viper.Viper, base string) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyDefaultAccounts, domain.NewAccountPool(domain.DefaultAccountIDs).Strings())
	v.SetDefault(KeyStoragePath, filepath.Join(base, "storage.toml"))
	v.SetDefault(KeySessionsDir, filepath.Join(base, "sessions"))
	v.SetDefault(KeyAllowedTypes, domain.DefaultAllowedFileTypes)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyRenderWidth, 80)
	v.SetDefault(KeyRenderStyle, "auto")
	v.SetDefault(KeyDevListen, "127.0.0.1:8000")
	v.SetDefault(KeyDevUploadDir, filepath.Join(base, "uploaded-files", "raw-files"))
}

func fromViper(v *viper.Viper) Config {
	session := strings.TrimSpace(v.GetString(KeySession))
	if session == "" {
		session = strconv.Itoa(os.Getppid())
	}

	return Config{
		APIURL:          v.GetString(KeyAPIURL),
		DefaultAccounts: domain.NormalizeAccountIDs(v.GetStringSlice(KeyDefaultAccounts)),
		SessionsDir:     v.GetString(KeySessionsDir),
		Session:         session,
		AllowedTypes:    v.GetStringSlice(KeyAllowedTypes),
		LogLevel:        v.GetString(KeyLogLevel),
		RenderWidth:     v.GetInt(KeyRenderWidth),
		RenderStyle:     v.GetString(KeyRenderStyle),
		DevListen:       v.GetString(KeyDevListen),
		DevUploadDir:    v.GetString(KeyDevUploadDir),
	}
}
