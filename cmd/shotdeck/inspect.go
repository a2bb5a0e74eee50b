package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	shotdeck "github.com/VantageDataChat/ShotDeck"
)

func newInspectCmd(a *app) *cobra.Command {
	var showText bool
	cmd := &cobra.Command{
		Use:   "inspect <deck.pptx>",
		Short: "Print a summary of each slide in a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pres, err := shotdeck.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSummary(out, pres)
			if showText {
				fmt.Fprintln(out)
				fmt.Fprintln(out, pres.ExtractText())
			}
			if err := pres.Validate(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showText, "text", false, "Also print the text of every slide")
	return cmd
}

func printSummary(w io.Writer, pres *shotdeck.Presentation) {
	props := pres.GetDocumentProperties()
	layout := pres.GetLayout()
	fmt.Fprintf(w, "title:  %s\n", props.Title)
	fmt.Fprintf(w, "size:   %.2fin x %.2fin\n", shotdeck.EMUToInch(layout.CX), shotdeck.EMUToInch(layout.CY))
	fmt.Fprintf(w, "slides: %d\n\n", pres.GetSlideCount())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tTITLE")
	for i, slide := range pres.GetAllSlides() {
		title := ""
		if ph := slide.Title(); ph != nil {
			title = ph.Text()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, slideKind(slide), title)
	}
	tw.Flush()
}

// slideKind describes the body of a slide: a table with its dimensions or
// a text box with its line count.
func slideKind(slide *shotdeck.Slide) string {
	for _, shape := range slide.GetShapes() {
		switch s := shape.(type) {
		case *shotdeck.TableShape:
			return fmt.Sprintf("table %dx%d", s.GetNumRows(), s.GetNumCols())
		case *shotdeck.RichTextShape:
			lines := 0
			for _, p := range s.GetParagraphs() {
				if p.Text() != "" {
					lines++
				}
			}
			return fmt.Sprintf("text %d lines", lines)
		}
	}
	return "empty"
}
