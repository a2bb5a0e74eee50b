package shotdeck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func (r *PPTXReader) readSlide(zr *zip.Reader, path string) (*Slide, error) {
	data, err := readFileFromZip(zr, path)
	if err != nil {
		return nil, err
	}

	slide := newSlide()
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := r.parseSlideXML(decoder, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

// shapeBuilder accumulates one p:sp or p:graphicFrame while its subtree is
// being decoded.
type shapeBuilder struct {
	name          string
	rect          Rect
	isPlaceholder bool
	phType        string
	phIdx         int
	wrap          string
	paragraphs    []*Paragraph

	colWidths []int64
	rows      [][]*TableCell
}

func (r *PPTXReader) parseSlideXML(decoder *xml.Decoder, slide *Slide) error {
	type parseState struct {
		inBg           bool
		inSp           bool
		inGraphicFrame bool
		inTc           bool
		inTcPr         bool
		inRunProps     bool
		inText         bool
	}

	state := &parseState{}
	var current *shapeBuilder
	var currentCell *TableCell
	var currentParagraph *Paragraph
	var currentRun *TextRun
	var currentFont *Font

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to parse slide XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "bg":
				state.inBg = true

			case "sp":
				state.inSp = true
				current = &shapeBuilder{}

			case "graphicFrame":
				state.inGraphicFrame = true
				current = &shapeBuilder{}

			case "cNvPr":
				if current != nil {
					current.name = attrValue(t, "name")
				}

			case "ph":
				if current != nil {
					current.isPlaceholder = true
					current.phType = attrValue(t, "type")
					current.phIdx = int(attrInt64(t, "idx"))
				}

			case "off":
				if current != nil {
					current.rect.X = attrInt64(t, "x")
					current.rect.Y = attrInt64(t, "y")
				}

			case "ext":
				if current != nil {
					current.rect.Width = attrInt64(t, "cx")
					current.rect.Height = attrInt64(t, "cy")
				}

			case "bodyPr":
				if current != nil && !state.inTc {
					current.wrap = attrValue(t, "wrap")
				}

			case "gridCol":
				if current != nil {
					current.colWidths = append(current.colWidths, attrInt64(t, "w"))
				}

			case "tr":
				if current != nil {
					current.rows = append(current.rows, nil)
				}

			case "tc":
				if current != nil && len(current.rows) > 0 {
					state.inTc = true
					currentCell = &TableCell{fill: NewFill()}
					last := len(current.rows) - 1
					current.rows[last] = append(current.rows[last], currentCell)
				}

			case "tcPr":
				state.inTcPr = true

			case "p":
				currentParagraph = NewParagraph()
				switch {
				case state.inTc && currentCell != nil:
					currentCell.paragraphs = append(currentCell.paragraphs, currentParagraph)
				case current != nil:
					current.paragraphs = append(current.paragraphs, currentParagraph)
				}

			case "r":
				if currentParagraph != nil {
					currentRun = &TextRun{}
					currentFont = NewFont()
					currentParagraph.runs = append(currentParagraph.runs, currentRun)
				}

			case "rPr":
				if currentFont != nil {
					state.inRunProps = true
					if sz := attrInt64(t, "sz"); sz > 0 {
						currentFont.Size = int(sz / 100)
					}
					b := attrValue(t, "b")
					currentFont.Bold = b == "1" || b == "true"
				}

			case "latin":
				if state.inRunProps && currentFont != nil {
					currentFont.Name = attrValue(t, "typeface")
				}

			case "srgbClr":
				color := NewColor(attrValue(t, "val"))
				switch {
				case state.inRunProps && currentFont != nil:
					currentFont.Color = color
				case state.inTcPr && currentCell != nil:
					currentCell.fill = NewFill().SetSolid(color)
				case state.inBg:
					slide.background = NewFill().SetSolid(color)
				}

			case "t":
				state.inText = currentRun != nil
			}

		case xml.CharData:
			if state.inText {
				currentRun.text += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "bg":
				state.inBg = false

			case "sp":
				if state.inSp && current != nil {
					slide.shapes = append(slide.shapes, current.textShape())
				}
				state.inSp = false
				current = nil

			case "graphicFrame":
				if state.inGraphicFrame && current != nil && len(current.colWidths) > 0 {
					slide.shapes = append(slide.shapes, current.tableShape())
				}
				state.inGraphicFrame = false
				current = nil

			case "tc":
				state.inTc = false
				currentCell = nil

			case "tcPr":
				state.inTcPr = false

			case "p":
				currentParagraph = nil

			case "r":
				if currentRun != nil {
					currentRun.font = currentFont
				}
				currentRun = nil
				currentFont = nil

			case "rPr":
				state.inRunProps = false

			case "t":
				state.inText = false
			}
		}
	}
	return nil
}

func (b *shapeBuilder) textShape() Shape {
	if b.isPlaceholder {
		phType := PlaceholderType(b.phType)
		if phType == "" {
			phType = PlaceholderBody
		}
		ph := NewPlaceholderShape(phType)
		ph.phIdx = b.phIdx
		b.fill(&ph.RichTextShape)
		return ph
	}
	rt := NewRichTextShape()
	b.fill(rt)
	return rt
}

func (b *shapeBuilder) fill(rt *RichTextShape) {
	rt.SetName(b.name)
	rt.SetRect(b.rect)
	if len(b.paragraphs) > 0 {
		rt.paragraphs = b.paragraphs
		rt.activeParagraph = len(b.paragraphs) - 1
	}
	rt.wordWrap = b.wrap != "none"
}

func (b *shapeBuilder) tableShape() *TableShape {
	table := NewTableShape(len(b.rows), len(b.colWidths))
	table.SetName(b.name)
	table.SetRect(b.rect)
	// Column widths are always explicit in the file.
	table.SetAutoFit(false)
	for c, w := range b.colWidths {
		table.SetColumnWidth(c, w)
	}
	for i, row := range b.rows {
		for j, cell := range row {
			if j >= table.numCols {
				break
			}
			if len(cell.paragraphs) == 0 {
				cell.paragraphs = []*Paragraph{NewParagraph()}
			}
			table.rows[i][j] = cell
		}
	}
	return table
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrInt64(se xml.StartElement, name string) int64 {
	v := strings.TrimSpace(attrValue(se, name))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
