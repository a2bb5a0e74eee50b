package shotdeck

import (
	"fmt"
	"strings"
)

// Validate checks the presentation for structural issues and returns an error
// describing all problems found, or nil if the presentation is valid.
func (p *Presentation) Validate() error {
	var errs []string

	if p.properties == nil {
		errs = append(errs, "document properties are nil")
	}
	if p.layout == nil {
		errs = append(errs, "document layout is nil")
	} else {
		if p.layout.CX <= 0 {
			errs = append(errs, "layout width (CX) must be positive")
		}
		if p.layout.CY <= 0 {
			errs = append(errs, "layout height (CY) must be positive")
		}
	}

	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			errs = append(errs, prefix+": slide is nil")
			continue
		}
		for _, e := range validateSlide(slide, p.layout) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide, layout *DocumentLayout) []string {
	var errs []string
	if s.background != nil && s.background.Type == FillSolid && !isValidARGB(s.background.Color.ARGB) {
		errs = append(errs, "background color is invalid ARGB")
	}

	for j, shape := range s.shapes {
		prefix := fmt.Sprintf("shape %d", j+1)
		if shape == nil {
			errs = append(errs, prefix+": shape is nil")
			continue
		}
		if shape.GetWidth() < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if shape.GetHeight() < 0 {
			errs = append(errs, prefix+": height is negative")
		}
		if layout != nil && (shape.GetOffsetX()+shape.GetWidth() > layout.CX || shape.GetOffsetY()+shape.GetHeight() > layout.CY) {
			errs = append(errs, prefix+": extends beyond the slide")
		}

		switch sh := shape.(type) {
		case *TableShape:
			errs = append(errs, validateTable(sh, prefix)...)
		case *RichTextShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": rich text shape has no paragraphs")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *PlaceholderShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": placeholder shape has no paragraphs")
			}
			if sh.phType == "" {
				errs = append(errs, prefix+": placeholder type is empty")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		}
	}
	return errs
}

func validateTable(t *TableShape, prefix string) []string {
	var errs []string
	if t.numRows <= 0 || t.numCols <= 0 {
		return append(errs, prefix+": table must have at least 1 row and 1 column")
	}
	if len(t.rows) != t.numRows {
		errs = append(errs, prefix+": table row count mismatch")
	}
	var total int64
	for c := 0; c < t.numCols; c++ {
		total += t.GetColumnWidth(c)
	}
	if total > t.width {
		errs = append(errs, prefix+": column widths exceed table width")
	}
	for i, row := range t.rows {
		if len(row) != t.numCols {
			errs = append(errs, fmt.Sprintf("%s: row %d has %d cells, want %d", prefix, i+1, len(row), t.numCols))
		}
		for j, cell := range row {
			if cell == nil {
				errs = append(errs, fmt.Sprintf("%s: cell (%d,%d) is nil", prefix, i+1, j+1))
				continue
			}
			if cell.fill != nil && cell.fill.Type == FillSolid && !isValidARGB(cell.fill.Color.ARGB) {
				errs = append(errs, fmt.Sprintf("%s: cell (%d,%d) fill color is invalid ARGB", prefix, i+1, j+1))
			}
		}
	}
	return errs
}

// validateParagraphs checks paragraph runs for common issues.
func validateParagraphs(paragraphs []*Paragraph, prefix string) []string {
	var errs []string
	for i, para := range paragraphs {
		if para == nil {
			errs = append(errs, fmt.Sprintf("%s: paragraph %d is nil", prefix, i+1))
			continue
		}
		for k, tr := range para.runs {
			if tr == nil {
				errs = append(errs, fmt.Sprintf("%s: paragraph %d run %d is nil", prefix, i+1, k+1))
				continue
			}
			if tr.font != nil && tr.font.Color.IsSet() && !isValidARGB(tr.font.Color.ARGB) {
				errs = append(errs, fmt.Sprintf("%s: paragraph %d run %d color is invalid ARGB", prefix, i+1, k+1))
			}
		}
	}
	return errs
}
