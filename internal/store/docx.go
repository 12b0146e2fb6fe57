package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/audioscribe/audioscribe/pkg/timefmt"
)

const (
	docxFont     = "Times New Roman"
	docxFontSize = 13
)

// writeDocx renders the record as a styled document: bold title, metadata
// line, the full text, timestamped segments and an optional summary section.
func writeDocx(rec *Record, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	title := strings.TrimSuffix(filepath.Base(rec.SourceFile), filepath.Ext(rec.SourceFile))
	addRun(doc.AddParagraph(""), title, true, 16)

	meta := fmt.Sprintf("Duration: %.1fs | Language: %s | Model: %s",
		rec.Result.Duration, rec.Result.Language, rec.Result.Model)
	addRun(doc.AddParagraph(""), meta, false, docxFontSize)
	doc.AddParagraph("")

	addRun(doc.AddParagraph(""), "Transcription", true, 14)
	addRun(doc.AddParagraph(""), rec.Result.Text, false, docxFontSize)

	if len(rec.Result.Segments) > 1 {
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), "Segments", true, 14)
		for _, seg := range rec.Result.Segments {
			line := fmt.Sprintf("[%s] %s", timefmt.VTT(seg.Start), seg.Text)
			addRun(doc.AddParagraph(""), line, false, docxFontSize)
		}
	}

	if rec.Summary != nil && !rec.Summary.Failed() {
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), fmt.Sprintf("Summary (%s)", rec.Summary.Kind), true, 14)
		addRun(doc.AddParagraph(""), rec.Summary.Text, false, docxFontSize)
	}

	return doc.SaveTo(path)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
