// Package cli is the interactive shell of the aichef client. It wires the
// local cache, the backend API client, and the session manager together and
// exposes the session operations as REPL commands.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/aichef/internal/client/api"
	"github.com/dmitrijs2005/aichef/internal/client/cache"
	"github.com/dmitrijs2005/aichef/internal/client/config"
	"github.com/dmitrijs2005/aichef/internal/client/session"
	"github.com/dmitrijs2005/aichef/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	db     *sql.DB
	store  *cache.Store
	api    api.Client
	mgr    *session.Manager
	log    logging.Logger
	reader *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	db, err := cache.InitDatabase(ctx, cfg.CacheDSN)
	if err != nil {
		logger.Error(ctx, "error initializing cache database", "error", err)
		return nil, err
	}

	apiClient, err := api.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := cache.NewStore(cache.NewSQLiteRepository(db))
	mgr := session.NewManager(apiClient, store, logger)

	return &App{
		config: cfg,
		db:     db,
		store:  store,
		api:    apiClient,
		mgr:    mgr,
		log:    logger,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the session in the background and enters the REPL. The
// restored state shows up as soon as it is ready; until then commands see
// the provisional (cached) record.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	go a.mgr.Restore(ctx)

	ctx = session.NewContext(ctx, a.mgr)
	a.Root(ctx)
}
