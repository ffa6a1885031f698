package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/cache"
	"github.com/matzehuels/flowmark/pkg/server"
	"github.com/matzehuels/flowmark/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// newServeCmd creates the serve command that runs the preview server.
// Backends (document store, render cache) come from flowmark.toml.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	addr := opts.addr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	c := openCache(ctx, opts.noCache)
	defer c.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: server.New(server.Config{
			Store:     st,
			Cache:     cache.NewScoped(c, "server:"),
			Logger:    logger,
			RenderTTL: time.Duration(cfg.Cache.TTLHours) * time.Hour,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openStore builds the document store from configuration.
func openStore(ctx context.Context) (store.Store, error) {
	cfg := configFromContext(ctx)

	switch cfg.Serve.Store {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return store.NewMongoStore(connectCtx, store.MongoConfig{URI: cfg.Serve.MongoURI})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Serve.Store)
	}
}
