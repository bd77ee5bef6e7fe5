package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

// FormatError is returned for any schedule string that cannot be normalized.
// It is a per-row failure: callers record it and move on to the next row.
type FormatError struct {
	Raw    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Format jadwal tidak valid, %s: '%s'", e.Reason, e.Raw)
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Parser turns portal schedule strings into intervals in a fixed location.
//
// Accepted shapes include
//
//	Senin, 14 Jul 2025 | 14:00 - 16:30
//	14 Jul 2025 14:00 - 16:30
//	14 Jul 2025 22:00 - 15 Jul 2025 01:00
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// NewParser creates a parser for the given location; nil means time.Local.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{
		loc: loc,
		now: time.Now,
	}
}

// Location returns the zone parsed timestamps are expressed in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse normalizes one schedule string.
func (p *Parser) Parse(raw string) (model.ParsedInterval, error) {
	fail := func(reason string) (model.ParsedInterval, error) {
		return model.ParsedInterval{}, &FormatError{Raw: raw, Reason: reason}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return fail("jadwal kosong")
	}

	var datePart string
	rangePart := text
	if strings.Contains(text, "|") {
		parts := strings.Split(text, "|")
		if len(parts) != 2 {
			return fail("pemisah '|' lebih dari satu")
		}
		datePart = strings.TrimSpace(parts[0])
		rangePart = strings.TrimSpace(parts[1])
	}

	if !strings.Contains(rangePart, "-") {
		return fail("tidak ada pemisah '-'")
	}
	tokens := strings.Split(rangePart, "-")
	if len(tokens) != 2 {
		return fail("format split aneh")
	}
	startText := strings.TrimSpace(tokens[0])
	endText := strings.TrimSpace(tokens[1])
	if startText == "" || endText == "" {
		return fail("jam mulai atau selesai kosong")
	}
	if datePart != "" {
		startText = datePart + " " + startText
	}

	start, err := p.parseMoment(startText, nil)
	if err != nil {
		return fail(err.Error())
	}
	end, err := p.parseMoment(endText, &start)
	if err != nil {
		return fail(err.Error())
	}

	return model.ParsedInterval{Start: start, End: end}, nil
}

// parseMoment reads a date and/or time. Fields missing from text are taken from def;
// without def both a date and a time are required.
func (p *Parser) parseMoment(text string, def *time.Time) (time.Time, error) {
	f, err := scan(text)
	if err != nil {
		return time.Time{}, err
	}

	if def == nil {
		if !f.hasDate {
			return time.Time{}, errors.New("tanggal tidak ditemukan")
		}
		if !f.hasTime {
			return time.Time{}, errors.New("jam tidak ditemukan")
		}
		if !f.hasYear {
			f.year = p.now().In(p.loc).Year()
		}
	} else {
		if !f.hasDate {
			f.day, f.month, f.year = def.Day(), int(def.Month()), def.Year()
		} else if !f.hasYear {
			f.year = def.Year()
		}
		if !f.hasTime {
			f.hour, f.min, f.sec = def.Clock()
		}
	}

	if f.hour > 23 || f.min > 59 || f.sec > 59 {
		return time.Time{}, fmt.Errorf("jam di luar rentang %02d:%02d", f.hour, f.min)
	}
	if f.month < 1 || f.month > 12 {
		return time.Time{}, fmt.Errorf("bulan di luar rentang %d", f.month)
	}

	t := time.Date(f.year, time.Month(f.month), f.day, f.hour, f.min, f.sec, 0, p.loc)
	if t.Day() != f.day || int(t.Month()) != f.month {
		return time.Time{}, fmt.Errorf("tanggal tidak valid %d-%02d-%02d", f.year, f.month, f.day)
	}
	return t, nil
}
