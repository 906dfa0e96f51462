package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// entry is a [key, value] pair; registries are encoded as arrays of entries
// so that insertion order survives a round trip.
type entry[V any] struct {
	Key   string
	Value V
}

func (e entry[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Key, e.Value})
}

func (e *entry[V]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("entry: want [key, value], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Key); err != nil {
		return fmt.Errorf("entry key: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Value); err != nil {
		return fmt.Errorf("entry %q: %w", e.Key, err)
	}
	return nil
}

type contextJSON struct {
	RequestedDate string            `json:"requestedDate"`
	Movies        []entry[*Movie]   `json:"movies"`
	Theaters      []entry[*Theater] `json:"theaters"`
	Listings      []entry[*Listing] `json:"listings"`
}

func entries[V Identifiable](r *Registry[V]) []entry[V] {
	out := make([]entry[V], 0, r.Len())
	for _, k := range r.keys {
		out = append(out, entry[V]{Key: k, Value: r.values[k]})
	}
	return out
}

// MarshalJSON encodes the requested date and the three registries. The
// remaining index is derived and not encoded.
func (c *Context) MarshalJSON() ([]byte, error) {
	doc := contextJSON{
		Movies:   entries(c.Movies),
		Theaters: entries(c.Theaters),
		Listings: entries(c.Listings),
	}
	if !c.RequestedDate.IsZero() {
		doc.RequestedDate = c.RequestedDate.Format(time.RFC3339)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON replaces the contents of c. Listings are linked to their
// movie and theater by id, showings are re-parented to the listing that holds
// them, and each theater's listing ids are derived again from the listings.
func (c *Context) UnmarshalJSON(data []byte) error {
	var doc contextJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode context: %w", err)
	}

	fresh := NewContext()
	if c.Durations != (Durations{}) {
		fresh.Durations = c.Durations
	}
	if doc.RequestedDate != "" {
		t, err := time.Parse(time.RFC3339, doc.RequestedDate)
		if err != nil {
			return fmt.Errorf("decode context: requested date: %w", err)
		}
		fresh.RequestedDate = t
	}

	for _, e := range doc.Movies {
		if e.Value == nil || e.Value.ID() != e.Key {
			return fmt.Errorf("decode context: movie entry %q does not match its value", e.Key)
		}
		fresh.Movies.Set(e.Value)
	}
	for _, e := range doc.Theaters {
		if e.Value == nil || e.Value.ID() != e.Key {
			return fmt.Errorf("decode context: theater entry %q does not match its value", e.Key)
		}
		e.Value.ListingIDs = nil
		fresh.Theaters.Set(e.Value)
	}
	for _, e := range doc.Listings {
		l := e.Value
		if l == nil || l.ID() != e.Key {
			return fmt.Errorf("decode context: listing entry %q does not match its value", e.Key)
		}
		if !fresh.Movies.Includes(l.MovieID) {
			return fmt.Errorf("decode context: listing %q refers to unknown movie %q", e.Key, l.MovieID)
		}
		if !fresh.Theaters.Includes(l.TheaterID) {
			return fmt.Errorf("decode context: listing %q refers to unknown theater %q", e.Key, l.TheaterID)
		}
		for _, s := range l.Showings {
			s.ListingID = l.ID()
		}
		fresh.AddListing(l)
	}

	*c = *fresh
	return nil
}
