package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chadcinema-backend-go/internal/store"
)

// WeekDays are the fixed curation slots: the seven weekdays plus the
// cross-week "series" slot.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "series"}

func ValidDay(day string) bool {
	day = strings.ToLower(strings.TrimSpace(day))
	for _, d := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}

// CurrentWeek returns the ISO year-week key scoping curation data, e.g.
// "2026-W35".
func CurrentWeek() string {
	year, week := time.Now().UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func CurrentDay() string {
	return strings.ToLower(time.Now().UTC().Weekday().String())
}

// WeeklyContent returns the current week's assigned ids for the given day,
// in admin-entry order.
func WeeklyContent(ctx context.Context, curation store.CurationStore, day string) ([]string, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	if !ValidDay(day) {
		return nil, ErrBadRequest("Invalid day")
	}
	return curation.WeeklyIDs(ctx, CurrentWeek(), day)
}

func TodayContent(ctx context.Context, curation store.CurationStore) ([]string, error) {
	return WeeklyContent(ctx, curation, CurrentDay())
}

// AllWeeklyContent always returns every fixed day key; days without
// assignments map to an empty list, never a missing key.
func AllWeeklyContent(ctx context.Context, curation store.CurationStore) (map[string][]string, error) {
	assigned, err := curation.WeeklyByDay(ctx, CurrentWeek())
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string, len(WeekDays))
	for _, day := range WeekDays {
		if ids, ok := assigned[day]; ok {
			result[day] = ids
		} else {
			result[day] = []string{}
		}
	}
	return result, nil
}

// ReplaceWeekly swaps the current week's assignments for one day. Blank ids
// are dropped; an empty list clears the day.
func ReplaceWeekly(ctx context.Context, curation store.CurationStore, day string, contentIDs []string) error {
	day = strings.ToLower(strings.TrimSpace(day))
	if !ValidDay(day) {
		return ErrBadRequest("Invalid day")
	}
	cleaned := make([]string, 0, len(contentIDs))
	for _, id := range contentIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return curation.ReplaceWeekly(ctx, CurrentWeek(), day, cleaned)
}

// HeroCarousel returns active carousel ids ordered by position.
func HeroCarousel(ctx context.Context, curation store.CurationStore) ([]string, error) {
	return curation.HeroIDs(ctx)
}

// ReplaceHero atomically replaces the whole carousel set.
func ReplaceHero(ctx context.Context, curation store.CurationStore, contentIDs []string) error {
	cleaned := make([]string, 0, len(contentIDs))
	for _, id := range contentIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return curation.ReplaceHero(ctx, cleaned)
}
