package report

import (
	"fmt"
	"time"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/samutthan"
)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// buddhistEraOffset converts a Gregorian year to the Thai solar calendar.
const buddhistEraOffset = 543

// Build assembles the report document for src as of now.
func Build(src Source, now time.Time) Document {
	l := src.Locale
	msg := func(key i18n.MessageKey) string { return i18n.Message(key, l) }

	name := src.Profile.Name
	if name == "" {
		name = msg(i18n.MsgAnonymous)
	}

	element := src.Profile.Element
	ageGroup := "-"
	if birth, err := diagnosis.ParseBirthDate(src.Profile.BirthDate); err == nil {
		element = samutthan.BirthElement(birth)
		ageGroup = i18n.AgeGroupLabel(samutthan.AgeGroupFor(birth, now), l)
	}

	result := src.Result
	return Document{
		Locale: l,
		Title:  msg(i18n.MsgReportTitle),
		Patient: []Field{
			{Label: msg(i18n.MsgFullName), Value: name},
			{Label: msg(i18n.MsgGender), Value: i18n.GenderLabel(string(src.Profile.Gender), l)},
			{Label: msg(i18n.MsgBirthDate), Value: src.Profile.BirthDate},
			{Label: msg(i18n.MsgReportTime), Value: FormatTimestamp(now, l)},
		},
		SummaryHeading: msg(i18n.MsgDiagnosisSummary),
		Summary:        result.Summary,
		Badge:          fmt.Sprintf("%s %s", result.Imbalance, msg(i18n.MsgImbalanceSuffix)),
		BadgeColor:     BadgeColor(result.Imbalance),
		Factors: []Field{
			{Label: msg(i18n.MsgElementLabel), Value: i18n.ElementLabel(element, l)},
			{Label: msg(i18n.MsgSeasonFactor), Value: i18n.SeasonLabel(src.Weather.Season, l)},
			{Label: msg(i18n.MsgAgeFactor), Value: ageGroup},
		},
		LogicHeading: msg(i18n.MsgAILogic),
		Logic:        result.Logic,
		Sections: []Section{
			{Heading: msg(i18n.MsgDietaryCare), Items: result.Recommendations.Food},
			{Heading: msg(i18n.MsgLifestyle), Items: result.Recommendations.Lifestyle},
			{Heading: msg(i18n.MsgHerbs), Items: result.Recommendations.Herbs},
		},
		NoticeHeading: msg(i18n.MsgNotice),
		Notice:        msg(i18n.MsgNoticeText),
	}
}

// FormatTimestamp renders t for the report header. Thai uses Buddhist era years.
func FormatTimestamp(t time.Time, l i18n.Locale) string {
	if l == i18n.LocaleThai {
		return fmt.Sprintf("%d %s %d %s", t.Day(), thaiMonths[t.Month()-1], t.Year()+buddhistEraOffset, t.Format("15:04"))
	}
	return t.Format("2 January 2006 15:04")
}
