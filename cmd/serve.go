package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jdeanwallace/jinjabread/config"
	"github.com/jdeanwallace/jinjabread/handlers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve [project_dir]",
	Short: "Build the site, serve it and rebuild on changes",
	Long: `Build the site once, then serve the output directory with pretty URLs. Changes
to content, layouts, static files or the config file trigger a rebuild with the
configuration reloaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, projectDirArg(args), configFile, net.JoinHostPort(serveHost, strconv.Itoa(servePort)))
	},
}

func serve(ctx context.Context, projectDir, configFile, addr string) error {
	slog.Info("performing initial build")
	cfg, err := buildSite(projectDir, configFile)
	if err != nil {
		return err
	}

	router := &liveRouter{}
	router.install(cfg.OutputDir)

	w, err := newSiteWatcher(projectDir, configFile, cfg)
	if err != nil {
		return err
	}
	defer w.Close()
	w.onRebuild = router.follow
	go w.Run(ctx)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("serving %s on http://%s", cfg.OutputDir, addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "http server")
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(server.Shutdown(shutdownCtx), "shutdown")
}

// liveRouter serves the output directory of the most recent build.
type liveRouter struct {
	router    atomic.Pointer[mux.Router]
	outputDir atomic.Pointer[string]
}

func (l *liveRouter) install(outputDir string) {
	l.router.Store(handlers.SetupRouter(outputDir))
	l.outputDir.Store(&outputDir)
}

// follow switches to cfg's output directory when a rebuild moved it.
func (l *liveRouter) follow(cfg *config.Config) {
	if current := l.outputDir.Load(); current != nil && *current == cfg.OutputDir {
		return
	}
	slog.Info("output directory changed, serving the new one", "dir", cfg.OutputDir)
	l.install(cfg.OutputDir)
}

func (l *liveRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.router.Load().ServeHTTP(w, r)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default <project_dir>/jinjabread.toml)")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to listen on")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
}
