// Package label reads the free-text name a trading terminal reports for an
// account: the nominal balance encoded in it, the phase segment selected by a
// fund's name format, and the program/phase it belongs to.
package label

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	millionsRe  = regexp.MustCompile(`\$?(\d+(?:\.\d+)?|\.\d+)[Mm]`)
	thousandsRe = regexp.MustCompile(`\$?(\d+(?:\.\d+)?|\.\d+)[Kk]`)
	rawRe       = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d{4,}(?:\.\d+)?)`)
)

// ParseBalance extracts the nominal account size from a label such as
// "$7.5K Manh Ngo", "FTMO Challenge 100k" or "$50,000 Evaluation".
// Millions win over thousands, which win over raw dollar amounts.
func ParseBalance(label string) (float64, bool) {
	if label == "" {
		return 0, false
	}
	if v, ok := scaled(millionsRe, label, 1_000_000); ok {
		return v, true
	}
	if v, ok := scaled(thousandsRe, label, 1_000); ok {
		return v, true
	}
	if m := rawRe.FindStringSubmatch(label); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

func scaled(re *regexp.Regexp, label string, mult float64) (float64, bool) {
	m := re.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}
