package planner

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Selection is the set of movies and theaters a user picked. An empty set
// places no restriction on its dimension.
type Selection struct {
	Movies   map[string]struct{}
	Theaters map[string]struct{}
}

func NewSelection(movieIDs, theaterIDs []string) Selection {
	sel := Selection{
		Movies:   make(map[string]struct{}, len(movieIDs)),
		Theaters: make(map[string]struct{}, len(theaterIDs)),
	}
	for _, id := range movieIDs {
		sel.Movies[id] = struct{}{}
	}
	for _, id := range theaterIDs {
		sel.Theaters[id] = struct{}{}
	}
	return sel
}

func (s Selection) includes(l *Listing) bool {
	if len(s.Movies) > 0 {
		if _, ok := s.Movies[l.MovieID]; !ok {
			return false
		}
	}
	if len(s.Theaters) > 0 {
		if _, ok := s.Theaters[l.TheaterID]; !ok {
			return false
		}
	}
	return true
}

// Result is one upcoming showing with the entities needed to display it.
type Result struct {
	Showing *Showing
	Listing *Listing
	Movie   *Movie
	Theater *Theater
}

func (r Result) Showtime() Showtime { return r.Showing.Showtime }

// DisplayTime is the local clock time, e.g. "7:00pm".
func (r Result) DisplayTime() string { return r.Showing.Showtime.String() }

// EndsAt estimates when the movie lets out: previews plus the running time.
func (r Result) EndsAt(d Durations) Showtime {
	ms := d.Preview + r.Movie.RunningTime
	return ShowtimeAt(r.Showing.Showtime.Time().Add(time.Duration(ms) * time.Millisecond))
}

func (r Result) String() string {
	return fmt.Sprintf("'%s' showing '%s' at %s", r.Theater.Name, r.Movie.Title, r.Showing.Showtime.ISOString())
}

// RemainingShowings returns the showings at or after now of the selected
// movies at the selected theaters. They are sorted by showtime, then theater
// distance, then movie title and theater name ignoring leading articles.
// The remaining index is rebuilt for now on every call, so listings added
// since the last query are seen.
func (c *Context) RemainingShowings(sel Selection, now Showtime) []Result {
	c.RebuildRemaining(now)

	var results []Result
	for _, id := range c.Listings.Keys() {
		if !c.Remaining.HasListing(id) {
			continue
		}
		listing, _ := c.Listings.Get(id)
		if !sel.includes(listing) {
			continue
		}
		movie, theater := c.MovieOf(listing), c.TheaterOf(listing)
		for _, showing := range listing.ShowingsAfter(now) {
			results = append(results, Result{
				Showing: showing,
				Listing: listing,
				Movie:   movie,
				Theater: theater,
			})
		}
	}

	slices.SortStableFunc(results, compareResults)
	return results
}

func compareResults(a, b Result) int {
	return cmp.Or(
		CompareShowtimes(a.Showing.Showtime, b.Showing.Showtime),
		cmp.Compare(a.Theater.Distance, b.Theater.Distance),
		CompareWithoutArticles(a.Movie.Title, b.Movie.Title),
		CompareWithoutArticles(a.Theater.Name, b.Theater.Name),
		strings.Compare(a.Listing.ID(), b.Listing.ID()),
	)
}
