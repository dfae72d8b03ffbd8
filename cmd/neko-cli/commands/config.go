package commands

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"neko-backend/internal/components/telemetry"
	"neko-backend/internal/scrapers/jkanime"
	"neko-backend/pkg/configutil"
)

type Config struct {
	BaseUrl        string           `json:"base_url"`
	TimeoutSeconds int              `json:"timeout_seconds"`
	UserAgent      string           `json:"user_agent"`
	AcceptLanguage string           `json:"accept_language"`
	Telemetry      telemetry.Config `json:"telemetry"`
}

// readConfig reads the config at path and its .local override, a missing
// config means every value falls back to its default. With search set, path
// is looked up in the working directory and then each of its parents.
func readConfig(path string, search bool) (Config, error) {
	read := configutil.ReadConfig[Config]
	if search {
		read = configutil.ReadRecursively[Config]
	}
	cfg, err := read(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config found, using defaults", "path", path)
		return Config{}, nil
	}
	return cfg, err
}

func (c Config) clientOptions(dump telemetry.MessageOutput) jkanime.Options {
	return jkanime.Options{
		BaseUrl:        c.BaseUrl,
		UserAgent:      c.UserAgent,
		AcceptLanguage: c.AcceptLanguage,
		Timeout:        time.Duration(c.TimeoutSeconds) * time.Second,
		DumpOutput:     dump,
	}
}
