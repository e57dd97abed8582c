package nakama

import (
	"context"
	"database/sql"
	"errors"

	"warden/internal/app"
	"warden/internal/config"
	"warden/internal/i18n"

	"github.com/heroiclabs/nakama-common/runtime"
)

// module is the process-wide state shared by every warden match and RPC.
type module struct {
	cfg      config.RuntimeConfig
	enabled  *app.EnabledFlag
	renderer *i18n.Renderer
	console  *app.ConsoleAuth
	grants   *config.WardenConfig
}

func newModule(cfg config.RuntimeConfig, grants *config.WardenConfig) *module {
	return &module{
		cfg:      cfg,
		enabled:  app.NewEnabledFlag(cfg.Enabled),
		renderer: i18n.NewRenderer(cfg.DefaultLocale),
		console:  app.NewConsoleAuth(cfg.ConsoleSecret, cfg.ConsoleIssuer),
		grants:   grants,
	}
}

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	vars, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return errors.New("runtime env missing from context")
	}
	cfg, err := config.ParseRuntimeEnv(vars)
	if err != nil {
		return err
	}

	if err := config.LoadWardenConfig(cfg.ConfigPath); err != nil {
		logger.Warn("InitModule: Could not load warden config: %v", err)
	}
	if cfg.ConsoleSecret == "" {
		logger.Warn("InitModule: warden_console_secret is empty, console RPCs are disabled.")
	}

	m := newModule(cfg, config.GetWardenConfig())

	if err := m.RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameWarden, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(m), nil
	}); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"enabled":   cfg.Enabled,
		"tick_rate": cfg.TickRate,
		"incentive": cfg.IncentiveDelay().String(),
		"locale":    cfg.DefaultLocale,
	}).Info("Warden Go module loaded.")
	return nil
}
