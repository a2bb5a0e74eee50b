package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	shotdeck "github.com/VantageDataChat/ShotDeck"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file.json>...",
		Short: "Build a deck from saved slide descriptions",
		Long: `Parses one or more JSON presentation descriptions, as returned by the vision
model, and assembles their slides in argument order. No network access.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var merged shotdeck.PresentationDescriptor
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				res, err := shotdeck.Parse(string(data))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, s := range res.Skipped {
					a.logger.Warn("unknown slide type skipped",
						zap.String("path", path),
						zap.Int("slide", s.Index),
						zap.String("type", s.Type))
				}
				merged.Merge(res.Descriptor)
			}

			bopts, err := a.builderOptions()
			if err != nil {
				return err
			}
			b := shotdeck.NewBuilder(bopts...)
			pres, err := b.Build(merged)
			if err != nil {
				return err
			}
			if err := pres.Save(a.cfg.Output); err != nil {
				return err
			}
			reportFailures(cmd, b.Report())
			a.logger.Info("presentation written", zap.String("path", a.cfg.Output), zap.Int("slides", pres.GetSlideCount()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides)\n", a.cfg.Output, pres.GetSlideCount())
			return nil
		},
	}
}
