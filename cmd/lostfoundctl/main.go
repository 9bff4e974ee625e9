// Command lostfoundctl runs the matcher and the ownership verifier over local files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/config"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
	logpkg "github.com/kailas-cloud/lostfound/internal/logger"
)

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	logLevel   string
	logger     *zap.Logger
	weights    match.Weights
	thresholds verify.Thresholds
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "lostfoundctl",
		Short:         "Score lost/found matches and ownership claims offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"server config file to read matching and verification settings from")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(matchCmd(a))
	root.AddCommand(verifyCmd(a))
	root.AddCommand(questionnaireCmd(a))
	root.AddCommand(versionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	logger, err := logpkg.NewLogger("local", a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), a.logger))

	a.weights = match.DefaultWeights()
	a.thresholds = verify.DefaultThresholds()
	if a.configPath == "" {
		return nil
	}

	cfg, err := config.LoadScoring(a.configPath)
	if err != nil {
		return err
	}
	a.weights = cfg.Matching.Weights()
	a.thresholds = cfg.Verification.Thresholds()
	a.logger.Debug("Scoring settings loaded", zap.String("path", a.configPath))
	return nil
}
