package shotdeck

import (
	"archive/zip"
	"fmt"
	"strings"
)

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the group shape

	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *PlaceholderShape:
			shapesXML.WriteString(w.writePlaceholderShapeXML(s, &shapeID))
		case *RichTextShape:
			shapesXML.WriteString(w.writeRichTextShapeXML(s, &shapeID))
		case *TableShape:
			shapesXML.WriteString(w.writeTableShapeXML(s, &shapeID))
		}
	}

	bgXML := ""
	if slide.background != nil && slide.background.Type != FillNone {
		bgXML = "    <p:bg>\n      <p:bgPr>\n"
		bgXML += w.writeFillXML(slide.background)
		bgXML += "        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
%s    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, bgXML, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

// writeSlideRels links the slide to the single Title Only layout. Slides
// carry no images, charts or hyperlinks, so that is the only relationship.
func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slideNum int) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		},
	}
	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels)
}

// --- Rich Text Shape XML ---

func (w *PPTXWriter) writeRichTextShapeXML(s *RichTextShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("TextBox %d", id)
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(w.writeParagraphXML(para))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
          <a:noFill/>
        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s" rtlCol="0"/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name),
		s.offsetX, s.offsetY, s.width, s.height,
		boolToWrap(s.wordWrap),
		paragraphsXML.String())
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

func (w *PPTXWriter) writeParagraphXML(para *Paragraph) string {
	if len(para.runs) == 0 {
		return "          <a:p>\n            <a:endParaRPr lang=\"en-US\" dirty=\"0\"/>\n          </a:p>\n"
	}
	var runsXML strings.Builder
	for _, tr := range para.runs {
		runsXML.WriteString(w.writeTextRunXML(tr))
	}
	return fmt.Sprintf("          <a:p>\n%s          </a:p>\n", runsXML.String())
}

func (w *PPTXWriter) writeTextRunXML(tr *TextRun) string {
	font := tr.font
	if font == nil {
		font = NewFont()
	}
	attrs := ` lang="en-US"`
	if font.Size > 0 {
		attrs += fmt.Sprintf(` sz="%d"`, font.Size*100)
	}
	if font.Bold {
		attrs += ` b="1"`
	}
	attrs += ` dirty="0"`

	solidFill := ""
	if font.Color.IsSet() {
		solidFill = fmt.Sprintf(`
              <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(font.Color))
	}

	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
              <a:latin typeface="%s"/>`, xmlEscape(font.Name))
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, attrs, solidFill, latin, xmlEscape(tr.text))
}

// --- Table Shape XML ---

func (w *PPTXWriter) writeTableShapeXML(s *TableShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Table %d", id)
	}

	var gridCols strings.Builder
	for i := 0; i < s.numCols; i++ {
		fmt.Fprintf(&gridCols, "                <a:gridCol w=\"%d\"/>\n", s.GetColumnWidth(i))
	}

	var rowsXML strings.Builder
	rowHeight := s.GetRowHeight()

	for i := 0; i < s.numRows; i++ {
		fmt.Fprintf(&rowsXML, "              <a:tr h=\"%d\">\n", rowHeight)
		for j := 0; j < s.numCols; j++ {
			cell := s.rows[i][j]
			cellFill := ""
			if cell.fill != nil && cell.fill.Type == FillSolid {
				cellFill = fmt.Sprintf(`
                  <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(cell.fill.Color))
			}

			var cellText strings.Builder
			for _, para := range cell.paragraphs {
				cellText.WriteString(w.writeParagraphXML(para))
			}

			fmt.Fprintf(&rowsXML, `                <a:tc>
                  <a:txBody>
                    <a:bodyPr/>
                    <a:lstStyle/>
%s                  </a:txBody>
                  <a:tcPr>%s
                  </a:tcPr>
                </a:tc>
`, cellText.String(), cellFill)
		}
		rowsXML.WriteString("              </a:tr>\n")
	}

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="%s">
            <a:tbl>
              <a:tblPr firstRow="1" bandRow="1"/>
              <a:tblGrid>
%s              </a:tblGrid>
%s            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, xmlEscape(name),
		s.offsetX, s.offsetY, s.width, s.height,
		nsTable,
		gridCols.String(), rowsXML.String())
}

// --- Fill helpers ---

func (w *PPTXWriter) writeFillXML(f *Fill) string {
	if f == nil {
		return ""
	}
	switch f.Type {
	case FillSolid:
		return fmt.Sprintf("          <a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>\n", colorRGB(f.Color))
	default:
		return ""
	}
}

// --- Placeholder Shape XML ---

func (w *PPTXWriter) writePlaceholderShapeXML(s *PlaceholderShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Title %d", id)
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(w.writeParagraphXML(para))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            <p:ph type="%s"%s/>
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
        </p:spPr>
        <p:txBody>
          <a:bodyPr/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name),
		s.phType, placeholderIdxAttr(s.phIdx),
		s.offsetX, s.offsetY, s.width, s.height,
		paragraphsXML.String())
}

func placeholderIdxAttr(idx int) string {
	if idx == 0 {
		return ""
	}
	return fmt.Sprintf(` idx="%d"`, idx)
}
