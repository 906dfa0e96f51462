// Package planner holds the movie listings of one location query and answers
// which showings are still coming up for a selection of movies and theaters.
package planner

import (
	"fmt"
	"time"
)

// Identifiable is implemented by every entity kept in a Context.
type Identifiable interface {
	ID() string
}

// Registry is an insertion-ordered map in which the first value stored for a
// key wins.
type Registry[V Identifiable] struct {
	keys   []string
	values map[string]V
}

func NewRegistry[V Identifiable]() *Registry[V] {
	return &Registry[V]{values: make(map[string]V)}
}

// Set stores v under its own id. It reports whether v was stored.
func (r *Registry[V]) Set(v V) bool { return r.SetKey(v.ID(), v) }

// SetKey stores v under key unless key is already present.
func (r *Registry[V]) SetKey(key string, v V) bool {
	if _, ok := r.values[key]; ok {
		return false
	}
	r.keys = append(r.keys, key)
	r.values[key] = v
	return true
}

func (r *Registry[V]) Includes(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *Registry[V]) Get(key string) (V, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Registry[V]) Len() int { return len(r.keys) }

// Keys returns the keys in insertion order.
func (r *Registry[V]) Keys() []string { return append([]string(nil), r.keys...) }

// Values returns the values in insertion order.
func (r *Registry[V]) Values() []V {
	out := make([]V, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

func (r *Registry[V]) Clear() {
	r.keys = nil
	r.values = make(map[string]V)
}

// Durations are the fixed time allowances used when planning around a showing.
type Durations struct {
	Entrance Duration // car to seat
	Preview  Duration
	Exit     Duration // seat to car
}

// DefaultDurations are the allowances used by NewContext.
var DefaultDurations = Durations{
	Entrance: 5 * Duration(minute),
	Preview:  20 * Duration(minute),
	Exit:     5 * Duration(minute),
}

// Context is the entity store for one location query. It is written by a
// single ingestion pass and then only read; it does no locking.
type Context struct {
	RequestedDate time.Time
	Durations     Durations

	Movies   *Registry[*Movie]
	Theaters *Registry[*Theater]
	Listings *Registry[*Listing]

	Remaining *Remaining
}

func NewContext() *Context {
	return &Context{
		Durations: DefaultDurations,
		Movies:    NewRegistry[*Movie](),
		Theaters:  NewRegistry[*Theater](),
		Listings:  NewRegistry[*Listing](),
		Remaining: NewRemaining(),
	}
}

// Clear empties the store and invalidates the remaining index. It must
// finish before the next ingestion starts.
func (c *Context) Clear() {
	c.RequestedDate = time.Time{}
	c.Movies.Clear()
	c.Theaters.Clear()
	c.Listings.Clear()
	c.Remaining.Clear()
}

// MovieOf resolves the movie of a listing. A missing movie means the graph
// was built inconsistently and panics.
func (c *Context) MovieOf(l *Listing) *Movie {
	m, ok := c.Movies.Get(l.MovieID)
	if !ok {
		panic(fmt.Sprintf("planner: listing %q refers to unknown movie %q", l.ID(), l.MovieID))
	}
	return m
}

// TheaterOf resolves the theater of a listing, panicking when it is missing.
func (c *Context) TheaterOf(l *Listing) *Theater {
	t, ok := c.Theaters.Get(l.TheaterID)
	if !ok {
		panic(fmt.Sprintf("planner: listing %q refers to unknown theater %q", l.ID(), l.TheaterID))
	}
	return t
}

// ListingOf resolves the listing of a showing, panicking when it is missing.
func (c *Context) ListingOf(s *Showing) *Listing {
	l, ok := c.Listings.Get(s.ListingID)
	if !ok {
		panic(fmt.Sprintf("planner: showing %q refers to unknown listing %q", s.ID(), s.ListingID))
	}
	return l
}

// AddListing stores l and records it on its theater. The theater must
// already be in the store. It returns the listing held by the store, which
// is the earlier one when l's id was seen before.
func (c *Context) AddListing(l *Listing) *Listing {
	theater := c.TheaterOf(l)
	c.Listings.Set(l)
	theater.addListing(l.ID())
	stored, _ := c.Listings.Get(l.ID())
	return stored
}

// RebuildRemaining recomputes the remaining index for now.
func (c *Context) RebuildRemaining(now Showtime) {
	c.Remaining.Build(now, c.Listings.Values())
}
