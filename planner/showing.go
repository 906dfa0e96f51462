package planner

// Showing is one showtime of a listing. The movie and theater are reached
// through the listing.
type Showing struct {
	ListingID string   `json:"listingId"`
	Showtime  Showtime `json:"showtime"`
}

func (s *Showing) ID() string { return s.ListingID + "," + s.Showtime.ISOString() }

// CompareShowings orders showings by showtime.
func CompareShowings(a, b *Showing) int { return CompareShowtimes(a.Showtime, b.Showtime) }
