package i18n

import "github.com/yanqian/samutthan/internal/domain/samutthan"

var genderLabels = map[string]Text{
	"Male":   {TH: "ชาย", EN: "Male"},
	"Female": {TH: "หญิง", EN: "Female"},
	"Other":  {TH: "อื่นๆ", EN: "Other"},
}

// GenderLabel renders a stored gender value. Unknown values fall back to Other.
func GenderLabel(gender string, l Locale) string {
	if text, ok := genderLabels[gender]; ok {
		return text.In(l)
	}
	return genderLabels["Other"].In(l)
}

var elementLabels = map[samutthan.Element]Text{
	samutthan.ElementEarth: {TH: "ธาตุดิน", EN: string(samutthan.ElementEarth)},
	samutthan.ElementWater: {TH: "ธาตุน้ำ", EN: string(samutthan.ElementWater)},
	samutthan.ElementWind:  {TH: "ธาตุลม", EN: string(samutthan.ElementWind)},
	samutthan.ElementFire:  {TH: "ธาตุไฟ", EN: string(samutthan.ElementFire)},
}

// ElementLabel renders a birth element.
func ElementLabel(e samutthan.Element, l Locale) string {
	if text, ok := elementLabels[e]; ok {
		return text.In(l)
	}
	return string(e)
}

var seasonLabels = map[samutthan.Season]Text{
	samutthan.SeasonHimanta:  {TH: "เหมันตฤดู (ฤดูหนาว)", EN: string(samutthan.SeasonHimanta)},
	samutthan.SeasonKimhanta: {TH: "คิมหันตฤดู (ฤดูร้อน)", EN: string(samutthan.SeasonKimhanta)},
	samutthan.SeasonWasanta:  {TH: "วสันตฤดู (ฤดูฝน)", EN: string(samutthan.SeasonWasanta)},
}

// SeasonLabel renders a season.
func SeasonLabel(s samutthan.Season, l Locale) string {
	if text, ok := seasonLabels[s]; ok {
		return text.In(l)
	}
	return string(s)
}

var ageLabels = map[samutthan.AgeGroup]Text{
	samutthan.AgePathom:   {TH: "ปฐมวัย (0-16 ปี)", EN: string(samutthan.AgePathom)},
	samutthan.AgeMatchima: {TH: "มัชฌิมวัย (16-32 ปี)", EN: string(samutthan.AgeMatchima)},
	samutthan.AgePatchim:  {TH: "ปัจฉิมวัย (32 ปีขึ้นไป)", EN: string(samutthan.AgePatchim)},
}

// AgeGroupLabel renders an age bracket.
func AgeGroupLabel(a samutthan.AgeGroup, l Locale) string {
	if text, ok := ageLabels[a]; ok {
		return text.In(l)
	}
	return string(a)
}
