package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	articleRgx  = regexp.MustCompile(`^(an?|the)\s`)
	intervalRgx = regexp.MustCompile(`^\s*([(\][])\s*([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)\s*([)[\]])\s*$`)
)

// CompareWithoutArticles compares two titles case-insensitively, ignoring a
// leading "a", "an" or "the".
func CompareWithoutArticles(a, b string) int {
	return strings.Compare(sortKey(a), sortKey(b))
}

func sortKey(s string) string {
	return articleRgx.ReplaceAllString(strings.ToLower(s), "")
}

// IsInInterval reports whether value lies in an interval written as
// "[min, max)". "[" and "]" mark closed ends; "(" and ")" (or a reversed
// bracket) mark open ones.
func IsInInterval(value float64, interval string) (bool, error) {
	m := intervalRgx.FindStringSubmatch(interval)
	if m == nil {
		return false, fmt.Errorf("invalid interval %q", interval)
	}
	lo, _ := strconv.ParseFloat(m[2], 64)
	hi, _ := strconv.ParseFloat(m[3], 64)

	aboveLo := lo < value || (m[1] == "[" && lo == value)
	belowHi := value < hi || (m[4] == "]" && value == hi)
	return aboveLo && belowHi, nil
}

// collapseSpace trims s and replaces runs of whitespace with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
