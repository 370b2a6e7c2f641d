package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time on an unspecified day. Times are validated
// once at the API boundary; everything downstream works with this struct and
// minute arithmetic instead of re-parsing strings.
type TimeOfDay struct {
	Hour   int `bson:"hour" json:"hour"`
	Minute int `bson:"minute" json:"minute"`
}

// ParseTimeOfDay parses a strict "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Slot is a half-open interval [Start, End) on one calendar day.
type Slot struct {
	Start TimeOfDay `bson:"start" json:"start"`
	End   TimeOfDay `bson:"end" json:"end"`
}

// DurationMinutes is End-Start; non-positive values mean the slot is invalid.
func (s Slot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// Overlaps reports half-open interval overlap. Touching endpoints do not
// overlap: [10:00,12:00) and [12:00,14:00) are compatible.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Minutes() < other.End.Minutes() && s.End.Minutes() > other.Start.Minutes()
}
