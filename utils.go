package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"movietime/planner"
)

var requested_date_layouts = []string{
	"Monday, January 2, 2006",
	"Monday, Jan 2, 2006",
	"Mon, Jan 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"1/2/2006",
}

// parseRequestedDate reads the date shown above the listings,
// e.g. "Saturday, February 2, 2019".
func parseRequestedDate(input string) (time.Time, error) {
	input = strings.Join(strings.Fields(input), " ")
	for _, layout := range requested_date_layouts {
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid requested date: %q", input)
}

// Styles
var s_time = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AD76E7"))
var s_dur = lipgloss.NewStyle().Italic(true).Bold(false).Foreground(lipgloss.Color("#3FC942"))
var s_theater = lipgloss.NewStyle().Italic(false).Bold(false).Foreground(lipgloss.Color("#EB9B19"))
var s_dim = lipgloss.NewStyle().Italic(false).Bold(false).Foreground(lipgloss.Color("#797979"))

func atoi(s string, def int) int {
	x, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return x
}

// group_by_time splits sorted results into runs sharing the same showtime,
// keeping their order.
func group_by_time(results []planner.Result) []TimeGroup {
	var groups []TimeGroup
	for _, r := range results {
		n := len(groups)
		if n > 0 && groups[n-1].Showtime.Equal(r.Showtime()) {
			groups[n-1].Results = append(groups[n-1].Results, r)
			continue
		}
		groups = append(groups, TimeGroup{Showtime: r.Showtime(), Results: []planner.Result{r}})
	}
	return groups
}

// showing_line is one row under a time heading: title, theater, distance and
// when the movie lets out.
func showing_line(r planner.Result, d planner.Durations, title_width int) string {
	title := lipgloss.NewStyle().Bold(true).Width(title_width + 1).Align(lipgloss.Left)
	return fmt.Sprintf(
		"%s %s (%s) %s [%s]",
		title.Render(r.Movie.Title),
		s_theater.Render(r.Theater.Name),
		s_dim.Render(r.Theater.DistanceString()),
		s_dur.Render(r.Movie.RunningTimeString()),
		s_dim.Render("out "+r.EndsAt(d).String()),
	)
}
