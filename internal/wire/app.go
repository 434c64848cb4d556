package wire

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/blockmark/internal/config"
	"github.com/mithrel/blockmark/internal/db"
	"github.com/mithrel/blockmark/internal/pages"
	"github.com/mithrel/blockmark/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Store    *db.Store
	Renderer *render.Renderer
	Pages    *pages.Service

	closer io.Closer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := config.NewLogger(v)
	url := config.ResolveDBURL(v)
	store, closer, err := db.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("url", url))

	r := render.New(
		render.WithMaxDepth(v.GetInt("render.max_depth")),
		render.WithLogger(logger.Named("render")),
	)
	svc := pages.New(store, r,
		pages.WithCache(v.GetBool("render.cache")),
		pages.WithStylesheet(v.GetString("render.stylesheet")),
		pages.WithLogger(logger.Named("pages")),
	)
	return &App{
		Cfg:      v,
		Log:      logger,
		Store:    store,
		Renderer: r,
		Pages:    svc,
		closer:   closer,
	}, nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
