package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the launch records dashboard",
		Long: `Load the launch dataset and serve the interactive dashboard.

The dashboard provides:
- A launch site dropdown
- A success pie chart for the selected site
- A payload range slider
- A payload vs. outcome scatter chart colored by booster version

The dataset is loaded once at startup. A load failure stops the command.
With --watch, edits to a file dataset are reloaded and pushed to open dashboards.`,
		Example: `  # Serve spacex_launch_dash.csv from the working directory on port 8050
  launchdash serve

  # Serve another file on all interfaces
  launchdash serve --dataset data/launches.csv --host 0.0.0.0 --port 9000

  # Serve from DuckDB and reload on changes
  launchdash serve --source duckdb --dataset launches.duckdb --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("host", "", "Interface to listen on (default: 127.0.0.1)")
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8050)")
	cmd.Flags().Bool("debug", false, "Enable development mode with live reload")
	cmd.Flags().Bool("watch", false, "Reload the dataset when its file changes")
	cmd.Flags().Bool("open", false, "Open the dashboard in a browser")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	ds, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret, err = generateSessionSecret()
		if err != nil {
			return err
		}
		cc.Logger.Debug("no session secret configured, sessions will not survive a restart")
	}

	server := ui.NewServer(ui.Config{
		Holder:        dataset.NewHolder(ds),
		Source:        cfg.Dataset.SourceConfig(),
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		Watch:         cfg.Dataset.Watch,
		Debounce:      cfg.Dataset.Debounce,
		Dev:           cfg.Server.Debug,
		SessionSecret: secret,
		Logger:        cc.Logger,
	})

	if cfg.Server.Open {
		go openBrowser(server.URL())
	}

	cc.Renderer.Statusf("Serving %d launches from %s on %s", ds.Len(), ds.Source(), server.URL())
	cc.Renderer.Statusf("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// generateSessionSecret returns a random secret for signing session cookies.
func generateSessionSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(context.Background(), "open", url)
	case "linux":
		cmd = exec.CommandContext(context.Background(), "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(context.Background(), "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
