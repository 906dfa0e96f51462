package planner

import (
	"time"

	"github.com/charmbracelet/log"
)

// Listing pairs one movie with one theater and holds the showings of that
// movie at that theater, in page order.
type Listing struct {
	TheaterID string     `json:"theaterId"`
	MovieID   string     `json:"movieId"`
	Showings  []*Showing `json:"showings"`
}

func NewListing(theaterID, movieID string) *Listing {
	return &Listing{TheaterID: theaterID, MovieID: movieID}
}

// ListingID derives the id of the listing for a theater and movie.
func ListingID(theaterID, movieID string) string { return theaterID + "," + movieID }

func (l *Listing) ID() string { return ListingID(l.TheaterID, l.MovieID) }

// AddShowtime parses the next clock string scraped for this listing and
// appends the showing. Showtimes must be added in page order: a time that is
// earlier than the previous showing belongs to a following day. On error the
// listing is left unchanged.
func (l *Listing) AddShowtime(value string, requested time.Time) (*Showing, error) {
	showtime, err := ParseShowtime(value, requested)
	if err != nil {
		return nil, err
	}

	if n := len(l.Showings); n > 0 {
		prev := l.Showings[n-1].Showtime
		days := 0
		for showtime.Before(prev) {
			showtime = showtime.AddDays(1)
			days++
		}
		if days > 0 {
			log.Debug("showtime rolled over", "listing", l.ID(), "value", value, "days", days)
		}
	}

	showing := &Showing{ListingID: l.ID(), Showtime: showtime}
	l.Showings = append(l.Showings, showing)
	return showing, nil
}

// ShowingsAfter returns the showings at or after now.
func (l *Listing) ShowingsAfter(now Showtime) []*Showing {
	var out []*Showing
	for _, s := range l.Showings {
		if CompareShowtimes(s.Showtime, now) >= 0 {
			out = append(out, s)
		}
	}
	return out
}

// AreShowingsAfter reports whether any showing is at or after now.
func (l *Listing) AreShowingsAfter(now Showtime) bool {
	for _, s := range l.Showings {
		if CompareShowtimes(s.Showtime, now) >= 0 {
			return true
		}
	}
	return false
}
