package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/logger"
	"github.com/yildizm/CovTrack/internal/ui"
	"golang.org/x/sync/errgroup"
)

var (
	tuiTheme  string
	tuiReload bool
)

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the dashboard in the terminal",
		Long: `Open the dashboard in the terminal.

tab switches between the State and Month selectors, ←/→ (or h/l) change the
focused one, r resets both and q quits.

Examples:
  covtrack tui
  covtrack tui --theme high-contrast
  covtrack tui --reload`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	cmd.Flags().StringVar(&tuiTheme, "theme", "default", "color theme (default, high-contrast, minimal)")
	cmd.Flags().BoolVar(&tuiReload, "reload", false, "reload datasets when the files change")

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	if !ui.SetThemeByName(tuiTheme) {
		return fmt.Errorf("unknown theme %q (available: %v)", tuiTheme, ui.GetAvailableThemes())
	}
	ui.SetColorDisabled(!useColor(cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the program; nothing may log to it.
	log := logger.Nop()

	d, err := loadDashboard(ctx, cfg, log)
	if err != nil {
		return err
	}

	p := ui.NewProgram(ctx, d)
	if !tuiReload && !cfg.Server.Debug {
		return ui.Run(ctx, p)
	}

	g, gctx := errgroup.WithContext(ctx)
	w := newReloader(cfg, log, func(next *dashboard.Dashboard) {
		p.Send(ui.DashboardMsg{Dashboard: next})
	})
	w.OnError(func(err error) {
		p.Send(ui.ReloadFailed(err))
	})
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		defer stop()
		return ui.Run(ctx, p)
	})
	return g.Wait()
}
