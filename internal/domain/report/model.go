package report

import (
	"strings"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
)

// ContentType is the MIME type of rendered reports.
const ContentType = "application/pdf"

// RGB is a badge colour.
type RGB struct {
	R, G, B int
}

// Field is a labelled value line.
type Field struct {
	Label string
	Value string
}

// Section is a headed bullet list.
type Section struct {
	Heading string
	Items   []string
}

// Document is the localised, renderer agnostic content of a patient report.
type Document struct {
	Locale         i18n.Locale
	Title          string
	Patient        []Field
	SummaryHeading string
	Summary        string
	Badge          string
	BadgeColor     RGB
	Factors        []Field
	LogicHeading   string
	Logic          string
	Sections       []Section
	NoticeHeading  string
	Notice         string
}

// Source is the session data a report is built from.
type Source struct {
	Profile diagnosis.Profile
	Weather diagnosis.WeatherContext
	Result  diagnosis.Result
	Locale  i18n.Locale
}

// Artifact is a rendered and stored report.
type Artifact struct {
	Key         string
	FileName    string
	ContentType string
	Data        []byte
}

var badgeColors = map[diagnosis.Imbalance]RGB{
	diagnosis.ImbalancePitta: {R: 220, G: 38, B: 38},
	diagnosis.ImbalanceWata:  {R: 234, G: 88, B: 12},
	diagnosis.ImbalanceSemha: {R: 37, G: 99, B: 235},
	diagnosis.ImbalanceMixed: {R: 147, G: 51, B: 234},
}

// BadgeColor returns the display colour for an imbalance.
func BadgeColor(i diagnosis.Imbalance) RGB {
	if c, ok := badgeColors[i]; ok {
		return c
	}
	return RGB{R: 100, G: 116, B: 139}
}

// FileName returns the download name for a patient's report.
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = i18n.Message(i18n.MsgAnonymous, i18n.LocaleEnglish)
	}
	return "ThaiMed_Report_" + name + ".pdf"
}

// ObjectKey is the storage key of a session's report.
func ObjectKey(sessionID, fileName string) string {
	return "reports/" + sessionID + "/" + fileName
}
