package samutthan

import (
	"strconv"
	"strings"
	"time"
)

// BirthElement maps a birth date to its element. Only the month matters.
func BirthElement(date time.Time) Element {
	month := date.Month()
	if month >= time.October && month <= time.December {
		return ElementEarth
	}
	if month >= time.July && month <= time.September {
		return ElementWater
	}
	if month >= time.April && month <= time.June {
		return ElementWind
	}
	return ElementFire
}

// AgeGroupFor buckets the whole-year difference between birth and today.
// Month and day are ignored on purpose; see DESIGN.md.
func AgeGroupFor(birth, today time.Time) AgeGroup {
	age := today.Year() - birth.Year()
	if age <= 16 {
		return AgePathom
	}
	if age <= 32 {
		return AgeMatchima
	}
	return AgePatchim
}

// CurrentSeason returns the season for today's month.
// The Kimhanta and Wasanta ranges both contain June; Kimhanta is checked
// first and wins.
func CurrentSeason(today time.Time) Season {
	month := today.Month()
	if month >= time.February && month <= time.June {
		return SeasonKimhanta
	}
	if month >= time.June && month <= time.October {
		return SeasonWasanta
	}
	return SeasonHimanta
}

// KalaFactor maps an hour of day to its humor period.
func KalaFactor(hour int) Period {
	if (hour >= 6 && hour < 10) || (hour >= 18 && hour < 22) {
		return PeriodSemha
	}
	if (hour >= 10 && hour < 14) || (hour >= 22 || hour < 2) {
		return PeriodPitta
	}
	return PeriodWata
}

// OnsetHour extracts the hour from an "HH:MM" onset. An empty onset means
// "now". Only the leading digits before ':' are read, so "7:05" and "07"
// both yield 7.
func OnsetHour(onset string, now time.Time) (int, bool) {
	onset = strings.TrimSpace(onset)
	if onset == "" {
		return now.Hour(), true
	}
	head, _, _ := strings.Cut(onset, ":")
	end := 0
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	hour, err := strconv.Atoi(head[:end])
	if err != nil {
		return 0, false
	}
	return hour, true
}

// KalaFactorAt classifies an onset string. An unreadable onset matches no
// Semha or Pitta window and falls through to Wata.
func KalaFactorAt(onset string, now time.Time) Period {
	hour, ok := OnsetHour(onset, now)
	if !ok {
		return PeriodWata
	}
	return KalaFactor(hour)
}

// Classify derives all four factors. The season follows now, not the onset.
func Classify(birth time.Time, onset string, now time.Time) Factors {
	return Factors{
		Element:  BirthElement(birth),
		Season:   CurrentSeason(now),
		AgeGroup: AgeGroupFor(birth, now),
		Kala:     KalaFactorAt(onset, now),
	}
}
