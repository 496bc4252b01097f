package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"larder/infrastructure/backend"
	"larder/infrastructure/config"
)

// app carries what every subcommand shares once the root pre-run has loaded config.
type app struct {
	configPath string
	backendURL string

	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "larder",
		Short:         "Household inventory browser for the larder backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default larder.yaml or configs/larder.yaml)")
	root.PersistentFlags().StringVar(&a.backendURL, "backend", "", "inventory backend base URL (overrides config)")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newConsumeCmd(a),
		newDeleteCmd(a),
		newImportCmd(a),
		newUpdateInventoryCmd(a),
		newSheetCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{Level: level})))
	a.cfg = cfg
	return nil
}

func (a *app) client(observer backend.Observer) *backend.Client {
	timeout := a.cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return backend.NewClient(a.cfg.Backend.URL, timeout, observer)
}
