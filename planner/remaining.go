package planner

// Remaining records which listings, movies and theaters still have a showing
// at or after the time it was built for. It is a cache over the listings and
// must be rebuilt for every new "now".
type Remaining struct {
	ListingIDs map[string]struct{}
	MovieIDs   map[string]struct{}
	TheaterIDs map[string]struct{}

	builtAt Showtime
	built   bool
}

func NewRemaining() *Remaining {
	r := &Remaining{}
	r.Clear()
	return r
}

func (r *Remaining) Clear() {
	r.ListingIDs = make(map[string]struct{})
	r.MovieIDs = make(map[string]struct{})
	r.TheaterIDs = make(map[string]struct{})
	r.builtAt = Showtime{}
	r.built = false
}

// Build replaces the index with the listings that have a showing at or after now.
func (r *Remaining) Build(now Showtime, listings []*Listing) {
	r.Clear()
	for _, l := range listings {
		if !l.AreShowingsAfter(now) {
			continue
		}
		r.ListingIDs[l.ID()] = struct{}{}
		r.MovieIDs[l.MovieID] = struct{}{}
		r.TheaterIDs[l.TheaterID] = struct{}{}
	}
	r.builtAt = now
	r.built = true
}

// BuiltFor reports whether the index is current for now.
func (r *Remaining) BuiltFor(now Showtime) bool {
	return r.built && r.builtAt.Equal(now)
}

func (r *Remaining) HasListing(id string) bool {
	_, ok := r.ListingIDs[id]
	return ok
}

func (r *Remaining) HasMovie(id string) bool {
	_, ok := r.MovieIDs[id]
	return ok
}

func (r *Remaining) HasTheater(id string) bool {
	_, ok := r.TheaterIDs[id]
	return ok
}
