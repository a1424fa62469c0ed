package helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt"
)

var ErrInvalidDate = errors.New("invalid date")

// layouts accepted for booking dates; values without an offset are read as UTC
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO8601 parses the subset of ISO-8601 accepted by the API.
func ParseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, l := range isoLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// StartOfHour truncates t to the start of its hour in UTC.
func StartOfHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// DateFormatter renders a slot for human-readable notification text.
type DateFormatter interface {
	Format(t time.Time) string
}

type localeFormatter struct {
	tr     locales.Translator
	loc    *time.Location
	layout func(tr locales.Translator, t time.Time) string
}

func (f localeFormatter) Format(t time.Time) string {
	return f.layout(f.tr, t.In(f.loc))
}

// NewDateFormatter returns the formatter for locale ("pt" or "en") rendering in loc.
// Unknown locales fall back to "pt".
func NewDateFormatter(locale string, loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en":
		return localeFormatter{tr: en.New(), loc: loc, layout: englishLayout}
	default:
		return localeFormatter{tr: pt.New(), loc: loc, layout: portugueseLayout}
	}
}

// dia 05 de março, às 9:00h
func portugueseLayout(tr locales.Translator, t time.Time) string {
	return fmt.Sprintf("dia %02d de %s, às %d:%02dh", t.Day(), tr.MonthWide(t.Month()), t.Hour(), t.Minute())
}

// March 5 at 09:00
func englishLayout(tr locales.Translator, t time.Time) string {
	return fmt.Sprintf("%s %d at %02d:%02d", tr.MonthWide(t.Month()), t.Day(), t.Hour(), t.Minute())
}
