package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VantageDataChat/ShotDeck/internal/config"
	"github.com/VantageDataChat/ShotDeck/internal/pipeline"
	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
	"github.com/VantageDataChat/ShotDeck/internal/vision"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		provider string
		model    string
		workers  int
		maxDim   int
		preview  string
	)
	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Describe screenshots with a vision model and build a deck",
		Long: `Sends every screenshot in dir (default: input.dir from the config) to the
configured vision model and assembles the returned slides, in file name order,
into one deck.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if flags.Changed("provider") {
				cfg.Vision.Provider = provider
			}
			if flags.Changed("model") {
				cfg.Vision.Model = model
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("max-dim") {
				cfg.Vision.MaxImageDim = maxDim
			}
			if flags.Changed("preview") {
				cfg.PreviewDir = preview
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			dir := cfg.Input.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			images, err := screenshots.Discover(dir, cfg.Input.Extensions)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				return fmt.Errorf("no screenshots matching %v in %s", cfg.Input.Extensions, dir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			describer, err := vision.New(ctx, visionOptions(cfg))
			if err != nil {
				return err
			}
			return a.runBuild(ctx, cmd, describer, images)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&provider, "provider", "", "Vision provider: openai, gemini")
	flags.StringVar(&model, "model", "", "Vision model name")
	flags.IntVar(&workers, "workers", 0, "Screenshots processed concurrently")
	flags.IntVar(&maxDim, "max-dim", 0, "Downscale screenshots whose long edge exceeds this many pixels (0 = never)")
	flags.StringVar(&preview, "preview", "", "Also render PNG previews into this directory")
	return cmd
}

// visionOptions reads the vision settings once flags are applied, so the
// API key follows the final provider.
func visionOptions(cfg *config.Config) vision.Options {
	return vision.Options{
		Provider: cfg.Vision.Provider,
		APIKey:   cfg.ResolveAPIKey(),
		BaseURL:  cfg.Vision.BaseURL,
		Model:    cfg.Vision.Model,
	}
}

func (a *app) runBuild(ctx context.Context, cmd *cobra.Command, describer vision.Describer, images []string) error {
	cfg := a.cfg
	bopts, err := a.builderOptions()
	if err != nil {
		return err
	}
	ep, err := cfg.ErrorPolicy()
	if err != nil {
		return err
	}

	res, report, err := pipeline.BuildDeck(ctx, images, pipeline.BuildOptions{
		Options: pipeline.Options{
			Describer:      describer,
			Workers:        cfg.Workers,
			MaxImageDim:    cfg.Vision.MaxImageDim,
			RequestTimeout: cfg.GetRequestTimeout(),
			OnError:        ep,
			Logger:         a.logger,
		},
		Output:         cfg.Output,
		BuilderOptions: bopts,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", f)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "ignored slide %d of type %q in %s\n", s.Index, s.Type, filepath.Base(s.Path))
	}
	reportFailures(cmd, report)
	fmt.Fprintf(out, "wrote %s (%d slides from %d screenshots)\n", cfg.Output, report.Rendered, len(images)-len(res.Failed))

	if cfg.PreviewDir != "" {
		paths, err := writePreviews(cfg.Output, cfg.PreviewDir, nil)
		if err != nil {
			return err
		}
		a.logger.Info("previews written", zap.String("dir", cfg.PreviewDir), zap.Int("count", len(paths)))
	}
	return nil
}
