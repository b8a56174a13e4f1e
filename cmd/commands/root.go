package commands

// Root command for the docviz CLI.
// Every tool is a subcommand here and can also be built as its own binary
// through ExecuteStandalone (see cmd/bar-chart and friends).

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docviz/internal/infra/config"
	logging "docviz/internal/infra/log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const version = "1.0.0"

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docviz",
		Short: "Chart, table and illustration images for technical documentation",
		Long: `docviz renders bar charts, line charts and tables from JSON, CSV or XLSX data,
and generates illustrations from a short subject description through an image model.
All tools share one accent palette (see "docviz palette").`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(newBarCmd())
	root.AddCommand(newLineCmd())
	root.AddCommand(newTableCmd())
	root.AddCommand(newIllustrateCmd())
	root.AddCommand(newPaletteCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// ExecuteStandalone runs a single tool as the whole program, named after the binary.
func ExecuteStandalone(name string) error {
	var cmd *cobra.Command
	switch name {
	case "bar-chart":
		cmd = newBarCmd()
	case "line-chart":
		cmd = newLineCmd()
	case "table-chart":
		cmd = newTableCmd()
	case "illustrate":
		cmd = newIllustrateCmd()
	default:
		return fmt.Errorf("unknown tool %q", name)
	}
	cmd.Use = name
	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	addGlobalFlags(cmd.PersistentFlags())
	return cmd.Execute()
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ./config.yaml)")
	fs.BoolP("verbose", "v", false, "print debug output")
	fs.String("log-dir", "", "write a detailed log to DIR/app.log")
	fs.String("output-dir", "", "directory for default-named output files")
	fs.String("telegram-chat", "", "also send the image to this Telegram chat id or @channel")
}

// loadConfig reads configuration with the command's flags on top and sets up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(logging.Options{Dir: cfg.App.LogDir, Verbose: cfg.App.Verbose}); err != nil {
		return nil, err
	}
	logging.LogDebug("Config loaded",
		zap.String("command", cmd.Name()),
		zap.String("output_dir", cfg.App.OutputDir),
		zap.Int("dpi", cfg.Charts.DPI))
	return cfg, nil
}

// signalContext is cancelled on Ctrl-C / SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
