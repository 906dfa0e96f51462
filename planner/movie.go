package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRatingRuntime is returned when the "<rating> | <n> hr <m> min"
// text of a movie cannot be parsed.
var ErrInvalidRatingRuntime = errors.New("invalid rating/runtime")

var ratingRuntimeRgx = regexp.MustCompile(`^(.*) \| (?:(\d+) hr )?(\d+) min$`)

// Movie is a film playing somewhere in the requested area. Its id is the
// canonical URL on the listings site.
type Movie struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Rating      string   `json:"rating"`
	RunningTime Duration `json:"runningTime"`
}

// NewMovie parses the scraped fragments of a movie. A "(<year>)" suffix is
// dropped from the title when it is the current year.
func NewMovie(url, titleText, ratingRuntimeText string) (*Movie, error) {
	m := ratingRuntimeRgx.FindStringSubmatch(collapseSpace(ratingRuntimeText))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRatingRuntime, ratingRuntimeText)
	}
	hours := m[2]
	if hours == "" {
		hours = "0"
	}
	runningTime, err := ParseDuration(hours + "h" + m[3] + "m")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRatingRuntime, err)
	}

	return &Movie{
		URL:         url,
		Title:       removeThisYear(collapseSpace(titleText), Now().Year()),
		Rating:      m[1],
		RunningTime: runningTime,
	}, nil
}

func removeThisYear(title string, year int) string {
	rest, ok := strings.CutSuffix(title, fmt.Sprintf("(%d)", year))
	if !ok {
		return title
	}
	trimmed := strings.TrimRight(rest, " ")
	if trimmed == rest || trimmed == "" {
		return title
	}
	return trimmed
}

func (m *Movie) ID() string { return m.URL }

// RunningTimeString renders the running time the way the listings site does,
// e.g. "1 hr 36 min".
func (m *Movie) RunningTimeString() string {
	h, min := m.RunningTime.Hours(), m.RunningTime.Minutes()
	if h == 0 {
		return fmt.Sprintf("%d min", min)
	}
	return fmt.Sprintf("%d hr %d min", h, min)
}

// Footer is the secondary line shown under the title in movie lists.
func (m *Movie) Footer() string { return m.Rating + " | " + m.RunningTimeString() }

func (m *Movie) String() string {
	return fmt.Sprintf("%s - %d:%02d | %s", m.Title, m.RunningTime.Hours(), m.RunningTime.Minutes(), m.Rating)
}
