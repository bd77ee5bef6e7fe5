package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	timePattern = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?:[:.](\d{2}))?$`)
	numericDate = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})$`)
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayOfMonth  = regexp.MustCompile(`^\d{1,2}$`)
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	punctuation = strings.NewReplacer(",", " ", "(", " ", ")", " ")
)

// months covers Indonesian and English month names and their usual abbreviations.
var months = map[string]int{
	"januari": 1, "january": 1, "jan": 1,
	"februari": 2, "february": 2, "feb": 2, "pebruari": 2,
	"maret": 3, "march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"mei": 5, "may": 5,
	"juni": 6, "june": 6, "jun": 6,
	"juli": 7, "july": 7, "jul": 7,
	"agustus": 8, "august": 8, "agu": 8, "agt": 8, "ags": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"oktober": 10, "october": 10, "okt": 10, "oct": 10,
	"november": 11, "nov": 11, "nop": 11,
	"desember": 12, "december": 12, "des": 12, "dec": 12,
}

// skipped holds day names, zone suffixes and filler words that carry no date information.
var skipped = map[string]bool{
	"senin": true, "selasa": true, "rabu": true, "kamis": true,
	"jumat": true, "jum'at": true, "jum’at": true, "sabtu": true, "minggu": true, "ahad": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true,
	"wib": true, "wita": true, "wit": true,
	"pukul": true, "jam": true, "at": true,
}

type fields struct {
	day, month, year int
	hour, min, sec   int

	hasDate, hasYear, hasTime bool
}

// scan tokenizes a date/time fragment.
func scan(text string) (fields, error) {
	var f fields

	lower := cases.Lower(language.Indonesian).String(text)
	tokens := strings.Fields(punctuation.Replace(lower))
	if len(tokens) == 0 {
		return f, fmt.Errorf("teks waktu kosong")
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if skipped[tok] {
			continue
		}

		if m := timePattern.FindStringSubmatch(tok); m != nil {
			if f.hasTime {
				return f, fmt.Errorf("jam ganda %q", tok)
			}
			f.hour = atoi(m[1])
			f.min = atoi(m[2])
			if m[3] != "" {
				f.sec = atoi(m[3])
			}
			f.hasTime = true
			continue
		}

		if f.hasDate {
			// A second date is never valid inside one fragment.
			if numericDate.MatchString(tok) || isoDate.MatchString(tok) || dayOfMonth.MatchString(tok) {
				return f, fmt.Errorf("tanggal ganda %q", tok)
			}
		}

		if m := numericDate.FindStringSubmatch(tok); m != nil {
			f.day, f.month, f.year = atoi(m[1]), atoi(m[2]), atoi(m[3])
			f.hasDate, f.hasYear = true, true
			continue
		}

		if m := isoDate.FindStringSubmatch(tok); m != nil {
			f.year, f.month, f.day = atoi(m[1]), atoi(m[2]), atoi(m[3])
			f.hasDate, f.hasYear = true, true
			continue
		}

		// "14 Jul [2025]"
		if dayOfMonth.MatchString(tok) && i+1 < len(tokens) {
			if month, ok := months[tokens[i+1]]; ok {
				f.day, f.month = atoi(tok), month
				f.hasDate = true
				i++
				i += takeYear(tokens, i+1, &f)
				continue
			}
		}

		// "Jul 14 [2025]"
		if month, ok := months[tok]; ok && !f.hasDate && i+1 < len(tokens) && dayOfMonth.MatchString(tokens[i+1]) {
			f.day, f.month = atoi(tokens[i+1]), month
			f.hasDate = true
			i++
			i += takeYear(tokens, i+1, &f)
			continue
		}

		return f, fmt.Errorf("token tidak dikenali %q", tok)
	}

	return f, nil
}

// takeYear consumes a four-digit year at tokens[i], returning how many tokens it used.
func takeYear(tokens []string, i int, f *fields) int {
	if i < len(tokens) && yearPattern.MatchString(tokens[i]) {
		f.year = atoi(tokens[i])
		f.hasYear = true
		return 1
	}
	return 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
