package samutthan

// Element is the Thatu Chao Ruean (birth element).
type Element string

const (
	ElementEarth Element = "Din (Earth)"
	ElementWater Element = "Nam (Water)"
	ElementWind  Element = "Lom (Wind)"
	ElementFire  Element = "Fai (Fire)"
)

// Elements lists every birth element.
var Elements = []Element{ElementEarth, ElementWater, ElementWind, ElementFire}

// AgeGroup is the Ayu Samutthan bracket.
type AgeGroup string

const (
	AgePathom   AgeGroup = "Pathom Wai (0-16 years)"
	AgeMatchima AgeGroup = "Matchima Wai (16-32 years)"
	AgePatchim  AgeGroup = "Patchim Wai (32+ years)"
)

// AgeGroups lists every age bracket in ascending order.
var AgeGroups = []AgeGroup{AgePathom, AgeMatchima, AgePatchim}

// Season is the Utu Samutthan season.
type Season string

const (
	SeasonHimanta  Season = "Himanta (Cold/Dry)"
	SeasonKimhanta Season = "Kimhanta (Hot)"
	SeasonWasanta  Season = "Wasanta (Rainy)"
)

// Seasons lists every season.
var Seasons = []Season{SeasonHimanta, SeasonKimhanta, SeasonWasanta}

// Period is the Kala Samutthan time-of-day label.
type Period string

const (
	PeriodSemha Period = "Semha (Water) period"
	PeriodPitta Period = "Pitta (Fire) period"
	PeriodWata  Period = "Wata (Wind) period"
)

// Periods lists every time period.
var Periods = []Period{PeriodSemha, PeriodPitta, PeriodWata}

// Factors bundles the four Samutthan axes for one patient at one moment.
type Factors struct {
	Element  Element  `json:"element"`
	Season   Season   `json:"season"`
	AgeGroup AgeGroup `json:"ageGroup"`
	Kala     Period   `json:"kala"`
}
