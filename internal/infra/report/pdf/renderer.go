package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/yanqian/samutthan/internal/domain/report"
)

const (
	coreFamily    = "Helvetica"
	unicodeFamily = "ReportSans"
	pageMargin    = 15.0
	lineHeight    = 6.0
)

// ErrNoUnicodeFont is returned when a document holds text the core font
// cannot encode and no TTF font is available.
var ErrNoUnicodeFont = errors.New("report text needs a unicode font; set report.fontPath")

// thaiFontCandidates are common install paths of Thai-capable fonts, tried
// when no font is configured.
var thaiFontCandidates = []string{
	"/usr/share/fonts/truetype/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/truetype/thai-sarabun/Sarabun-Regular.ttf",
	"/usr/share/fonts/truetype/tlwg/Garuda.ttf",
	"/usr/share/fonts/truetype/tlwg/Loma.ttf",
	"/usr/share/fonts/TTF/Garuda.ttf",
}

// Renderer lays out report documents as A4 PDFs.
type Renderer struct {
	fontPath string
}

// NewRenderer constructs a renderer. fontPath should point to a TTF with Thai
// glyphs. When empty, a system Thai font is looked up; failing that only
// cp1252 text can be rendered.
func NewRenderer(fontPath string) *Renderer {
	fontPath = strings.TrimSpace(fontPath)
	if fontPath == "" {
		fontPath = discoverFont(thaiFontCandidates)
	}
	return &Renderer{fontPath: fontPath}
}

// FontPath reports the TTF in use, or "" for the core font.
func (r *Renderer) FontPath() string {
	return r.fontPath
}

func discoverFont(candidates []string) string {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Render implements report.Renderer.
func (r *Renderer) Render(doc report.Document) ([]byte, error) {
	if r.fontPath == "" {
		if sample, ok := firstUnencodable(doc); !ok {
			return nil, fmt.Errorf("%w (cannot encode %q)", ErrNoUnicodeFont, sample)
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)

	family, text := r.setupFonts(pdf)
	w := &writer{pdf: pdf, family: family, text: text}
	w.render(doc)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) setupFonts(pdf *fpdf.Fpdf) (string, func(string) string) {
	if r.fontPath == "" {
		return coreFamily, pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(unicodeFamily, "", r.fontPath)
	pdf.AddUTF8Font(unicodeFamily, "B", r.fontPath)
	return unicodeFamily, func(s string) string { return s }
}

type writer struct {
	pdf    *fpdf.Fpdf
	family string
	text   func(string) string
}

func (w *writer) render(doc report.Document) {
	w.pdf.AddPage()

	w.font("B", 18)
	w.pdf.CellFormat(0, 10, w.text(doc.Title), "", 1, "C", false, 0, "")
	w.pdf.Ln(2)

	w.font("", 11)
	for _, field := range doc.Patient {
		w.field(field)
	}
	w.pdf.Ln(4)

	w.heading(doc.SummaryHeading)
	w.badge(doc.Badge, doc.BadgeColor)
	w.paragraph(doc.Summary)

	for _, field := range doc.Factors {
		w.field(field)
	}
	w.pdf.Ln(3)

	w.heading(doc.LogicHeading)
	w.paragraph(doc.Logic)

	for _, section := range doc.Sections {
		w.heading(section.Heading)
		w.font("", 11)
		for _, item := range section.Items {
			w.pdf.MultiCell(0, lineHeight, w.text("- "+item), "", "L", false)
		}
		w.pdf.Ln(2)
	}

	w.pdf.Ln(2)
	w.font("B", 10)
	w.pdf.SetTextColor(180, 83, 9)
	w.pdf.CellFormat(0, lineHeight, w.text(doc.NoticeHeading), "", 1, "L", false, 0, "")
	w.font("", 9)
	w.pdf.MultiCell(0, 5, w.text(doc.Notice), "", "L", false)
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) font(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *writer) heading(text string) {
	w.font("B", 13)
	w.pdf.SetTextColor(22, 101, 52)
	w.pdf.CellFormat(0, 8, w.text(text), "", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) field(f report.Field) {
	w.font("B", 11)
	label := w.text(f.Label + ": ")
	w.pdf.CellFormat(w.pdf.GetStringWidth(label)+1, lineHeight, label, "", 0, "L", false, 0, "")
	w.font("", 11)
	w.pdf.MultiCell(0, lineHeight, w.text(f.Value), "", "L", false)
}

func (w *writer) paragraph(text string) {
	w.font("", 11)
	w.pdf.MultiCell(0, lineHeight, w.text(text), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) badge(text string, color report.RGB) {
	w.font("B", 11)
	label := w.text(text)
	w.pdf.SetFillColor(color.R, color.G, color.B)
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.CellFormat(w.pdf.GetStringWidth(label)+8, 8, label, "", 1, "C", true, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(2)
}

// firstUnencodable returns the first document string the core font cannot
// show, and false, or "" and true when everything fits cp1252.
func firstUnencodable(doc report.Document) (string, bool) {
	texts := []string{doc.Title, doc.SummaryHeading, doc.Summary, doc.Badge, doc.LogicHeading, doc.Logic, doc.NoticeHeading, doc.Notice}
	for _, f := range append(append([]report.Field{}, doc.Patient...), doc.Factors...) {
		texts = append(texts, f.Label, f.Value)
	}
	for _, section := range doc.Sections {
		texts = append(texts, section.Heading)
		texts = append(texts, section.Items...)
	}
	for _, text := range texts {
		for _, r := range text {
			if !cp1252(r) {
				return text, false
			}
		}
	}
	return "", true
}

// cp1252Extras are the characters cp1252 places in 0x80-0x9F.
const cp1252Extras = "\u20ac\u201a\u0192\u201e\u2026\u2020\u2021\u02c6\u2030\u0160\u2039\u0152\u017d\u2018\u2019\u201c\u201d\u2022\u2013\u2014\u02dc\u2122\u0161\u203a\u0153\u017e\u0178"

func cp1252(r rune) bool {
	if r < 0x80 || (r >= 0xA0 && r <= 0xFF) {
		return true
	}
	return strings.ContainsRune(cp1252Extras, r)
}

var _ report.Renderer = (*Renderer)(nil)
