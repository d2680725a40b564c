// Package entrypoint wires configuration, storage, the catalog client and the
// view state into the server, terminal and list front ends.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookshelf/internal/bookmarks"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/settings"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/search"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/storage/providers/badgerkv"
	"github.com/mrlokans/bookshelf/internal/storage/providers/rediskv"
	"github.com/mrlokans/bookshelf/internal/tui"
	"github.com/mrlokans/bookshelf/internal/view"
)

// App holds the wired components shared by every front end.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Library   *library.Library
	Search    *search.Controller
	Scheduler *scheduler.RefreshScheduler
	Database  *database.Database

	closers []func() error
}

// Build wires the application. ctx bounds the lifetime of searches fired by
// the debounce timer.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger}

	slot, err := app.openSlot(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	store := bookmarks.NewStore(slot, logger.Named("bookmarks"))
	store.Load(ctx)

	client := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithLogger(logger.Named("catalog")),
	)

	sortOption, err := view.ParseSortOption(cfg.View.DefaultSort)
	if err != nil {
		sortOption = view.SortTitleAsc
	}

	lib := library.New(client, store,
		library.WithLogger(logger.Named("library")),
		library.WithBuilder(view.NewBuilder(cfg.View.Locale)),
		library.WithSort(sortOption),
	)
	app.Library = lib

	app.Search = search.NewController(func(term string) {
		// Failures are recorded in the view state
		_ = lib.Search(ctx, term)
	}, search.WithDelay(cfg.View.SearchDebounce))

	if cfg.Refresh.Enabled {
		app.Scheduler = scheduler.NewRefreshScheduler(lib, cfg.Refresh.Schedule, logger.Named("scheduler"))
	}

	logger.Info("application wired",
		zap.String("catalog", client.BaseURL()),
		zap.String("reading_list_backend", cfg.ReadingList.Backend),
		zap.Int("bookmarks", store.Len()),
		zap.Bool("refresh_enabled", cfg.Refresh.Enabled))

	return app, nil
}

// openSlot opens the storage backend holding the reading list.
func (a *App) openSlot(ctx context.Context) (storage.Slot, error) {
	cfg := a.Config
	key := cfg.ReadingList.Key

	switch cfg.ReadingList.Backend {
	case storage.BackendSQLite:
		db, err := database.NewDatabase(cfg.Database.Path, a.Logger.Named("database"))
		if err != nil {
			return nil, err
		}
		a.Database = db
		a.closers = append(a.closers, db.Close)
		return settings.NewRepository(db.DB).Slot(key), nil

	case storage.BackendBadger:
		db, err := badgerkv.Open(cfg.Badger.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return badgerkv.NewSlot(db, key), nil

	case storage.BackendRedis:
		rdb, err := rediskv.NewClient(ctx, rediskv.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return rediskv.NewSlot(rdb, key), nil

	case storage.BackendMemory:
		return storage.NewMemorySlot(nil), nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.ReadingList.Backend)
	}
}

// Close stops background work and releases storage handles.
func (a *App) Close() error {
	if a.Search != nil {
		a.Search.Close()
	}
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	var errs []error
	for _, closeFn := range slices.Backward(a.closers) {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// startScheduler starts the refresh scheduler when it is enabled.
func (a *App) startScheduler(ctx context.Context) error {
	if a.Scheduler == nil {
		return nil
	}
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start refresh scheduler: %w", err)
	}
	return nil
}

// Router builds the presentation server handler.
func (a *App) Router(version string) http.Handler {
	return http_controllers.NewRouter(http_controllers.RouterConfig{
		Library:            a.Library,
		Search:             a.Search,
		Database:           a.Database,
		ReadingListBackend: a.Config.ReadingList.Backend,
		Version:            version,
		Logger:             a.Logger.Named("http"),
	})
}

// Serve runs the presentation server until ctx is done, then shuts it down
// gracefully within the configured timeout.
func Serve(ctx context.Context, app *App, version string) error {
	cfg := app.Config
	logger := app.Logger

	if err := app.Library.Refresh(ctx); err != nil {
		logger.Warn("initial load failed, serving the error state", zap.Error(err))
	}
	if err := app.startScheduler(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: app.Router(version),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := cfg.ShutdownTimeout()
		logger.Info("shutting down server", zap.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if app.Scheduler != nil {
			app.Scheduler.Stop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server exiting")
		return nil
	})

	return g.Wait()
}

// RunTUI runs the terminal front end until the user quits.
func RunTUI(ctx context.Context, app *App) error {
	if err := app.startScheduler(ctx); err != nil {
		return err
	}
	return tui.Run(ctx, app.Library, app.Search)
}
