package observability

import (
	"os"

	"github.com/danmuck/neobuild/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the runtime logger tagged with app as the global logger.
func InitLogger(app string) zerolog.Logger {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	logging.ApplyEnvOverrides(&cfg)
	logger := logging.New(cfg, os.Stderr).With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
