package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/config"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/emoji"
	"github.com/yildizm/CovTrack/internal/formatter"
)

var (
	exportFormat     string
	exportState      string
	exportMonth      string
	exportOutputFile string
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a dashboard report",
		Long: `Export what the dashboard shows for one selection: the totals of the selected
state, the bar chart series of the selected month and the state table.

Examples:
  covtrack export
  covtrack export --state Kerala --month 04
  covtrack export --format csv --month 03
  covtrack export --format xlsx --output-file report.xlsx`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format (text, json, csv, markdown, xlsx); default from config")
	cmd.Flags().StringVar(&exportState, "state", analyzer.AllStates, "state to total")
	cmd.Flags().StringVar(&exportMonth, "month", analyzer.AllMonths, "month key (01-12) for the bar charts")
	cmd.Flags().StringVarP(&exportOutputFile, "output-file", "o", "", "save output to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	format := exportFormat
	if !cmd.Flags().Changed("format") || format == "" {
		format = cfg.Output.DefaultFormat
	}
	spec, ok := formatter.Lookup(format)
	if !ok {
		return fmt.Errorf("unsupported format: %s (use one of: %s)", format, strings.Join(config.ValidFormats, ", "))
	}
	if spec.Name == "xlsx" && exportOutputFile == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("xlsx output is binary; use --output-file")
	}

	log := newLogger("export", false)
	defer func() { _ = log.Sync() }()

	d, err := loadDashboard(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	color := exportOutputFile == "" && useColor(cfg)
	f, err := formatter.New(spec.Name, color)
	if err != nil {
		return err
	}
	report := d.Report(dashboard.Selection{State: exportState, Month: exportMonth})
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	return handleOutputDestination(cmd.OutOrStdout(), cmd.ErrOrStderr(), output, exportOutputFile)
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(stdout, stderr io.Writer, output []byte, path string) error {
	if path == "" {
		_, err := stdout.Write(output)
		return err
	}

	if err := validateOutputFilePath(path); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	fmt.Fprintf(stderr, "%s Report saved to: %s\n", emoji.GetEmoji("success"), path)
	return nil
}

func validateOutputFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path comes from the user's own flag
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	return nil
}
