package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/CovTrack/internal/config"
	"github.com/yildizm/CovTrack/internal/emoji"
	"github.com/yildizm/CovTrack/internal/web"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr     string
	serveBasePath string
	serveDebug    bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the Covid-19 India dashboard over HTTP.

The page shows the choropleth map, the state table, the state counters and the
monthly bar charts. Changing a dropdown fetches only the affected fragment.
With --debug the datasets are reloaded whenever one of the files changes.

Examples:
  covtrack serve
  covtrack serve --addr :8080 --base-path /
  covtrack serve --debug`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: localhost:8050)")
	cmd.Flags().StringVar(&serveBasePath, "base-path", "", "URL prefix of the dashboard (default from config: /dash/)")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "reload datasets on change and log to the console")

	return cmd
}

// applyServeFlags lets explicitly set flags win over the configuration.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("base-path") {
		cfg.Server.BasePath = serveBasePath
	}
	if cmd.Flags().Changed("debug") {
		cfg.Server.Debug = serveDebug
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	log := newLogger("serve", cfg.Server.Debug)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := loadDashboard(ctx, cfg, log.WithComponent("dashboard"))
	if err != nil {
		return err
	}
	srv, err := web.NewServer(cfg.Server, d, log.WithComponent("http"))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	if cfg.Server.Debug {
		w := newReloader(cfg, log.WithComponent("dashboard"), srv.SetDashboard)
		w.OnError(srv.ReloadFailed)
		w.TrackReloads(srv.TrackReload)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Dashboard on http://%s%s (Ctrl+C to stop)\n",
		emoji.GetEmoji("rocket"), cfg.Server.Addr, cfg.Server.BasePath)
	if cfg.Server.Debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching data files for changes\n", emoji.GetEmoji("reload"))
	}

	return g.Wait()
}
