package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	shotdeck "github.com/VantageDataChat/ShotDeck"
	"github.com/VantageDataChat/ShotDeck/internal/config"
	"github.com/VantageDataChat/ShotDeck/internal/logging"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	output     string
	onError    string
	rowPolicy  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "shotdeck",
		Short: "Turn screenshots into PowerPoint decks",
		Long: `shotdeck sends screenshots to a vision model, which describes each one as
table or text slides in JSON, and assembles the slides into a .pptx deck.

Commands:
  shotdeck build [dir]         screenshots -> vision model -> deck
  shotdeck render <json>...    slide descriptions on disk -> deck
  shotdeck inspect <deck>      summarise a deck
  shotdeck preview <deck>      render slides to PNG`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	flags.StringVar(&a.logLevel, "log", "", "Log level: debug, info, warn, error")
	flags.StringVarP(&a.output, "output", "o", "", "Output .pptx path")
	flags.StringVar(&a.onError, "on-error", "", "What to do when an image or slide fails: abort, skip")
	flags.StringVar(&a.rowPolicy, "row-policy", "", "Table rows that do not match the headers: reject, normalize")

	root.AddCommand(
		newBuildCmd(a),
		newRenderCmd(a),
		newInspectCmd(a),
		newPreviewCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger.
// Precedence is flag > environment > file > default.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("on-error") {
		cfg.OnError = a.onError
	}
	if flags.Changed("row-policy") {
		cfg.RowPolicy = a.rowPolicy
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// builderOptions maps the configured policies onto engine options.
func (a *app) builderOptions() ([]shotdeck.Option, error) {
	ep, err := a.cfg.ErrorPolicy()
	if err != nil {
		return nil, err
	}
	rp, err := a.cfg.RowShapePolicy()
	if err != nil {
		return nil, err
	}
	return []shotdeck.Option{
		shotdeck.WithLogger(a.logger),
		shotdeck.WithErrorPolicy(ep),
		shotdeck.WithRowPolicy(rp),
	}, nil
}

func reportFailures(cmd *cobra.Command, report shotdeck.Report) {
	for _, f := range report.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", f)
	}
}
