package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	shotdeck "github.com/VantageDataChat/ShotDeck"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		dir   string
		width int
		jpg   bool
	)
	cmd := &cobra.Command{
		Use:   "preview <deck.pptx>",
		Short: "Render each slide of a deck to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := shotdeck.DefaultRenderOptions()
			if width > 0 {
				opts.Width = width
			}
			if jpg {
				opts.Format = shotdeck.ImageFormatJPEG
			}
			if dir == "" {
				dir = a.cfg.PreviewDir
			}
			if dir == "" {
				dir = "preview"
			}
			paths, err := writePreviews(args[0], dir, opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: preview_dir from the config, else ./preview)")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels (default 960)")
	cmd.Flags().BoolVar(&jpg, "jpeg", false, "Write JPEG instead of PNG")
	return cmd
}

// writePreviews opens the deck at path and renders every slide into dir.
func writePreviews(path, dir string, opts *shotdeck.RenderOptions) ([]string, error) {
	pres, err := shotdeck.Open(path)
	if err != nil {
		return nil, err
	}
	ext := "png"
	if opts != nil && opts.Format == shotdeck.ImageFormatJPEG {
		ext = "jpg"
	}
	return pres.SaveSlidesAsImages(filepath.Join(dir, "slide_%d."+ext), opts)
}
