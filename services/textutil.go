package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	iataStrictRe = regexp.MustCompile(`\b[A-Z]{3}\b`)
	iataLooseRe  = regexp.MustCompile(`[A-Za-z]{3}`)
	intRe        = regexp.MustCompile(`\d+`)
	isoDateRe    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	threeLetters = regexp.MustCompile(`^[a-z]{3}$`)

	diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// ErrNoJSON reports that no balanced JSON object could be located in a reply.
var ErrNoJSON = errors.New("no JSON object found in text")

// NormalizeCityName lowers, trims and strips diacritics so that user input
// like "București " matches the lookup table key "bucuresti".
func NormalizeCityName(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// ExtractIATA pulls a 3-letter airport code out of free text, e.g.
// "The code is OTP" -> "OTP". It prefers a strict word-bounded uppercase
// token, then any 3 consecutive letters uppercased, then the fallback.
// Never fails, whatever the input.
func ExtractIATA(text, fallback string) string {
	if text == "" {
		return fallback
	}
	if m := iataStrictRe.FindString(text); m != "" {
		return m
	}
	if m := iataLooseRe.FindString(text); m != "" {
		return strings.ToUpper(m)
	}
	return fallback
}

// ExtractPrice returns the first embedded integer, so both "150" and
// "around 150 EUR total" parse to 150. Returns 0 when no digits appear.
func ExtractPrice(text string) float64 {
	m := intRe.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return float64(n)
}

// ExtractISODate returns the first YYYY-MM-DD substring, or "".
func ExtractISODate(text string) string {
	return isoDateRe.FindString(text)
}

// AddDays shifts a YYYY-MM-DD date by n calendar days. Date-only UTC
// arithmetic, so month, year and leap-day rollovers are exact and there is
// no timezone or DST drift.
func AddDays(dateStr string, days int) (string, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format("2006-01-02"), nil
}

// ExtractJSONObject locates the first balanced {...} block in an AI reply and
// unmarshals it into v. Replies wrapped in markdown code fences, or with
// prose before and after the object, are tolerated. Returns ErrNoJSON when
// no object can be found.
func ExtractJSONObject(text string, v any) error {
	cleaned := stripCodeFences(text)

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return json.Unmarshal([]byte(cleaned[start:i+1]), v)
			}
		}
	}
	return ErrNoJSON
}

func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return text
}
