package main

import (
	"movietime/planner"
)

// TimeGroup is a run of results that start at the same time.
type TimeGroup struct {
	Showtime planner.Showtime
	Results  []planner.Result
}

// Session is what the CLI keeps between runs: the listings of the last
// location query and what the user picked from them.
type Session struct {
	location     string
	max_distance float64
	store        *planner.Context
	theater_ids  []string
	movie_ids    []string
}

func (s Session) selection() planner.Selection {
	return planner.NewSelection(s.movie_ids, s.theater_ids)
}
