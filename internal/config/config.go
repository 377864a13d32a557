package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
)

type Config struct {
	Port                 string
	DBConnectionString   string
	LauncherConfigPath   string
	VersionURL           string
	GitRepoURL           string
	GitBranch            string
	GitToken             string
	GitTransport         string
	APIToken             string
	LogLevel             logrus.Level
	VersionCheckInterval time.Duration
	RemoteTimeout        time.Duration
	WineBinary           string
	Progress             *ProgressConfig
	Retry                *RetryConfig
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")
	configPath := getEnv("LAUNCHER_CONFIG_PATH", "")
	versionURL := getEnv("VERSION_URL", "")
	repoURL := getEnv("GIT_REPO_URL", "")
	branch := getEnv("GIT_BRANCH", gitsync.DefaultBranch)
	token := getEnv("GIT_TOKEN", "")
	apiToken := getEnv("API_TOKEN", "")
	wine := getEnv("WINE_BINARY", "wine")

	transport := strings.ToLower(getEnv("GIT_TRANSPORT", gitsync.TransportAuto))
	switch transport {
	case gitsync.TransportAuto, gitsync.TransportCLI, gitsync.TransportGoGit:
	default:
		return nil, fmt.Errorf("invalid GIT_TRANSPORT %q: expected %s, %s or %s",
			transport, gitsync.TransportAuto, gitsync.TransportCLI, gitsync.TransportGoGit)
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	checkInterval, err := strconv.Atoi(getEnv("VERSION_CHECK_INTERVAL_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERSION_CHECK_INTERVAL_MINUTES: %w", err)
	}
	if checkInterval < 0 {
		return nil, fmt.Errorf("VERSION_CHECK_INTERVAL_MINUTES cannot be negative")
	}

	remoteTimeout, err := strconv.Atoi(getEnv("REMOTE_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_TIMEOUT_SECONDS: %w", err)
	}
	if remoteTimeout <= 0 {
		return nil, fmt.Errorf("REMOTE_TIMEOUT_SECONDS must be positive")
	}

	return &Config{
		Port:                 port,
		DBConnectionString:   dbConnStr,
		LauncherConfigPath:   configPath,
		VersionURL:           versionURL,
		GitRepoURL:           repoURL,
		GitBranch:            branch,
		GitToken:             token,
		GitTransport:         transport,
		APIToken:             apiToken,
		LogLevel:             level,
		VersionCheckInterval: time.Duration(checkInterval) * time.Minute,
		RemoteTimeout:        time.Duration(remoteTimeout) * time.Second,
		WineBinary:           wine,
		Progress:             DefaultProgressConfig(),
		Retry:                DefaultRetryConfig(),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
