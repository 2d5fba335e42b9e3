// -- cmd/components.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/browser"
	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/directory"
	"github.com/davenull7x/listforge/internal/schema"
	"github.com/davenull7x/listforge/internal/store"
)

// passComponents bundles everything a profiling or submission pass needs.
// The session is acquired exactly once and shared sequentially across
// directories; Shutdown releases it on every exit path.
type passComponents struct {
	Config      *config.Config
	Store       *store.Store
	Directories []schema.DirectoryRecord
	Manager     *browser.Manager
	Session     *browser.Session

	log *zap.Logger
}

// initializePassComponents resolves config, loads the directory list and
// launches the shared browser session.
func initializePassComponents(ctx context.Context, logger *zap.Logger) (*passComponents, error) {
	cfg, err := config.NewFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	dirs, err := directory.NewStore(cfg.Stores.DirectoryList).LoadByStatus(cfg.Run.DirectoryStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory list: %w", err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories matched status %q in %s", cfg.Run.DirectoryStatus, cfg.Stores.DirectoryList)
	}

	st := store.New(cfg.Stores.SiteProfiles, cfg.Stores.Results, cfg.Stores.FieldStats, logger)

	mgr, err := browser.NewManager(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	session, err := mgr.NewSession(ctx)
	if err != nil {
		_ = mgr.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}

	logger.Info("Pass components initialized",
		zap.String("session_id", session.ID()),
		zap.Int("directories", len(dirs)),
		zap.String("status_filter", cfg.Run.DirectoryStatus))

	return &passComponents{
		Config:      cfg,
		Store:       st,
		Directories: dirs,
		Manager:     mgr,
		Session:     session,
		log:         logger,
	}, nil
}

func (p *passComponents) Shutdown(ctx context.Context) {
	if p.Session != nil {
		if err := p.Session.Close(ctx); err != nil {
			p.log.Warn("Session close reported an error", zap.Error(err))
		}
	}
	if p.Manager != nil {
		if err := p.Manager.Shutdown(ctx); err != nil {
			p.log.Warn("Browser shutdown reported an error", zap.Error(err))
		}
	}
}
