package samutthan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestBirthElementMonthBuckets(t *testing.T) {
	want := map[time.Month]Element{
		time.January: ElementFire, time.February: ElementFire, time.March: ElementFire,
		time.April: ElementWind, time.May: ElementWind, time.June: ElementWind,
		time.July: ElementWater, time.August: ElementWater, time.September: ElementWater,
		time.October: ElementEarth, time.November: ElementEarth, time.December: ElementEarth,
	}
	for month, element := range want {
		require.Equal(t, element, BirthElement(date(1990, month, 1)), "month %s", month)
	}
}

func TestBirthElementCoversEveryDayAndIgnoresYear(t *testing.T) {
	start := date(2023, time.January, 1)
	for d := start; d.Year() == 2023; d = d.AddDate(0, 0, 1) {
		got := BirthElement(d)
		require.Contains(t, Elements, got)
		require.Equal(t, got, BirthElement(d.AddDate(-37, 0, 0)))
	}
}

func TestBirthElementScenarioValentines1990(t *testing.T) {
	require.Equal(t, ElementFire, BirthElement(date(1990, time.February, 14)))
}

func TestAgeGroupThresholds(t *testing.T) {
	today := date(2024, time.March, 1)
	cases := []struct {
		birthYear int
		want      AgeGroup
	}{
		{2024, AgePathom},
		{2008, AgePathom},   // 16
		{2007, AgeMatchima}, // 17
		{1992, AgeMatchima}, // 32
		{1991, AgePatchim},  // 33
		{1930, AgePatchim},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, AgeGroupFor(date(tc.birthYear, time.December, 31), today), "born %d", tc.birthYear)
	}
}

func TestAgeGroupIsMonotonic(t *testing.T) {
	today := date(2024, time.June, 1)
	rank := map[AgeGroup]int{AgePathom: 0, AgeMatchima: 1, AgePatchim: 2}
	prev := -1
	for age := 0; age <= 100; age++ {
		got := rank[AgeGroupFor(date(2024-age, time.January, 1), today)]
		require.GreaterOrEqual(t, got, prev, "age %d", age)
		prev = got
	}
}

func TestAgeGroupIgnoresMonthAndDay(t *testing.T) {
	// Born 2007-12-31 and assessed 2024-01-01: really 16, but the year
	// difference is 17.
	require.Equal(t, AgePathom, AgeGroupFor(date(2008, time.December, 31), date(2024, time.January, 1)))
	require.Equal(t, AgeMatchima, AgeGroupFor(date(2007, time.December, 31), date(2024, time.January, 1)))
}

func TestCurrentSeasonJuneResolvesToKimhanta(t *testing.T) {
	require.Equal(t, SeasonKimhanta, CurrentSeason(date(2024, time.June, 1)))
	require.Equal(t, SeasonKimhanta, CurrentSeason(date(2024, time.June, 30)))
}

func TestCurrentSeasonMonths(t *testing.T) {
	want := map[time.Month]Season{
		time.January: SeasonHimanta, time.February: SeasonKimhanta, time.March: SeasonKimhanta,
		time.April: SeasonKimhanta, time.May: SeasonKimhanta, time.June: SeasonKimhanta,
		time.July: SeasonWasanta, time.August: SeasonWasanta, time.September: SeasonWasanta,
		time.October: SeasonWasanta, time.November: SeasonHimanta, time.December: SeasonHimanta,
	}
	for month, season := range want {
		require.Equal(t, season, CurrentSeason(date(2025, month, 15)), "month %s", month)
	}
}

func TestKalaFactorHours(t *testing.T) {
	want := map[int]Period{
		0: PeriodPitta, 1: PeriodPitta,
		2: PeriodWata, 3: PeriodWata, 4: PeriodWata, 5: PeriodWata,
		6: PeriodSemha, 7: PeriodSemha, 8: PeriodSemha, 9: PeriodSemha,
		10: PeriodPitta, 11: PeriodPitta, 12: PeriodPitta, 13: PeriodPitta,
		14: PeriodWata, 15: PeriodWata, 16: PeriodWata, 17: PeriodWata,
		18: PeriodSemha, 19: PeriodSemha, 20: PeriodSemha, 21: PeriodSemha,
		22: PeriodPitta, 23: PeriodPitta,
	}
	require.Len(t, want, 24)
	for hour, period := range want {
		require.Equal(t, period, KalaFactor(hour), "hour %d", hour)
	}
}

func TestKalaFactorAtLateNightOnset(t *testing.T) {
	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	require.Equal(t, PeriodPitta, KalaFactorAt("23:30", now))
}

func TestKalaFactorAtOnsetParsing(t *testing.T) {
	now := time.Date(2024, time.May, 1, 19, 45, 0, 0, time.UTC)

	require.Equal(t, PeriodSemha, KalaFactorAt("", now))
	require.Equal(t, PeriodSemha, KalaFactorAt("07:15", now))
	require.Equal(t, PeriodSemha, KalaFactorAt("7", now))
	require.Equal(t, PeriodWata, KalaFactorAt("15:00", now))
	require.Equal(t, PeriodWata, KalaFactorAt("noon", now))

	hour, ok := OnsetHour("09:59", now)
	require.True(t, ok)
	require.Equal(t, 9, hour)

	_, ok = OnsetHour(":30", now)
	require.False(t, ok)
}

func TestClassify(t *testing.T) {
	now := time.Date(2024, time.June, 10, 11, 0, 0, 0, time.UTC)
	got := Classify(date(1990, time.February, 14), "23:30", now)

	require.Equal(t, Factors{
		Element:  ElementFire,
		Season:   SeasonKimhanta,
		AgeGroup: AgePatchim,
		Kala:     PeriodPitta,
	}, got)
}
