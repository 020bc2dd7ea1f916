package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"leadcrm/cmd/leadcrm/config"
	"leadcrm/cmd/leadcrm/ui"
	"leadcrm/internal/api"
	"leadcrm/internal/export"
	"leadcrm/internal/leadlist"
	"leadcrm/internal/logging"
	"leadcrm/internal/session"
)

var (
	// Global flags
	verbose bool
	apiURL  string
	token   string
	timeout time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd launches the interactive lead manager.
var rootCmd = &cobra.Command{
	Use:   "leadcrm",
	Short: "leadCRM - terminal lead manager",
	Long: `leadCRM is a terminal front end for the lead management API.

All business rules live on the backend; this client renders forms, the
filterable lead list, settings and the dashboard, scoped to the role of
the authenticated user.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode owns the terminal, so it logs to files instead
		if cmd.Use == "leadcrm" && cmd.CalledAs() == "leadcrm" {
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// exportCmd downloads the lead list without entering the UI.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all visible leads to a spreadsheet file",
	Long: `Downloads the lead export from the backend and writes it next to the
current directory (or --out). The backend applies the same role scoping
as the interactive list, so the file holds exactly the leads you can see.

Examples:
  leadcrm export
  leadcrm export --format csv --out /tmp/reports`,
	RunE: runExport,
}

// configCmd prints or updates the stored client configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active client configuration",
	RunE:  showConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config key (api_base_url, token, theme)",
	Args:  cobra.ExactArgs(2),
	RunE:  setConfig,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (or set LEADCRM_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API bearer token (or set LEADCRM_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "Export format: xlsx or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "Directory to write the export into")

	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildClient loads config, applies flag overrides, and returns a ready
// API client plus the effective config.
func buildClient() (*api.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if token != "" {
		cfg.Token = token
	}
	if cfg.Token == "" {
		return nil, cfg, fmt.Errorf("no API token configured; run `leadcrm config set token <value>` or set LEADCRM_TOKEN")
	}

	opts := []api.Option{}
	if logger != nil {
		opts = append(opts, api.WithLogger(logger))
	}
	return api.New(cfg.APIBaseURL, cfg.Token, opts...), cfg, nil
}

// runInteractive authenticates, then hands the terminal to Bubble Tea.
func runInteractive() error {
	client, cfg, err := buildClient()
	if err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err == nil {
		if err := logging.Initialize(dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}
		defer logging.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	user, err := client.Me(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	sess := session.New(user, cfg.Token)
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	p := tea.NewProgram(
		ui.NewModel(client, sess, styles),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	client, _, err := buildClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	exporter := export.New(client)
	path, err := exporter.Save(ctx, format, leadlist.NewQuery().Values(), exportOut)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logger.Info("export written", zap.String("path", path))
	fmt.Println(path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	path, _ := config.ConfigFile()

	fmt.Printf("config file:  %s\n", path)
	fmt.Printf("api_base_url: %s\n", cfg.APIBaseURL)
	tok := "(not set)"
	if cfg.Token != "" {
		tok = "(set)"
	}
	fmt.Printf("token:        %s\n", tok)
	fmt.Printf("theme:        %s\n", cfg.Theme)
	return nil
}

func setConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "api_base_url":
		cfg.APIBaseURL = value
	case "token":
		cfg.Token = value
	case "theme":
		if value != "light" && value != "dark" {
			return fmt.Errorf("theme must be light or dark")
		}
		cfg.Theme = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	dir, _ := config.ConfigDir()
	fmt.Printf("saved %s in %s\n", key, filepath.Join(dir, "config.json"))
	return nil
}
