package util

import "time"

// LoadLocation resolves an IANA zone name, falling back to a fixed offset
// when the host has no tz database.
func LoadLocation(name string, fallbackOffset time.Duration) *time.Location {
	if name == "" {
		return time.FixedZone("UTC", 0)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, int(fallbackOffset.Seconds()))
	}
	return loc
}

// Clock returns a now func pinned to loc.
func Clock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Now().In(loc)
	}
}
