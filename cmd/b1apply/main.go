package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/config"
	_ "github.com/bloxops/b1apply/internal/resource/catalog"
)

var Version = "dev"

// root holds the state shared by all subcommands.
type root struct {
	configPath string
	cspURL     string
	verbosity  int

	log    logr.Logger
	client *bloxone.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	r := &root{}

	cmd := &cobra.Command{
		Use:           "b1apply",
		Short:         "Reconcile declarative BloxOne DDI resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return r.setup()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&r.configPath, "config", "c", "", "path to the configuration file")
	pf.StringVar(&r.cspURL, "csp-url", "", "portal base URL (overrides config and BLOXONE_CSP_URL)")
	pf.CountVarP(&r.verbosity, "verbose", "v", "increase log verbosity")

	cmd.AddCommand(
		newApplyCmd(r),
		newGetCmd(r),
		newNextAvailableCmd(r),
		newVersionCmd(),
	)
	return cmd
}

// setup builds the logger and the API client once for the whole run.
func (r *root) setup() error {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-r.verbosity))
	zl, err := zc.Build()
	if err != nil {
		return fmt.Errorf("unable to build logger: %w", err)
	}
	r.log = zapr.NewLogger(zl)

	cfg, err := config.Load(afero.NewOsFs(), r.configPath)
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}
	if r.cspURL != "" {
		cfg.CSPURL = r.cspURL
	}

	client, err := bloxone.New(r.log.WithName("bloxone"), cfg.Bloxone())
	if err != nil {
		return err
	}
	r.client = client
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the b1apply version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
