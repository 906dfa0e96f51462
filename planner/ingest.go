package planner

import (
	"errors"
	"fmt"
)

// ErrNoRequestedDate is returned when ingesting before the listings date is known.
var ErrNoRequestedDate = errors.New("requested date not set")

// TheaterRecord is the raw text scraped for one theater.
type TheaterRecord struct {
	Name         string
	URL          string
	Address      string
	Phone        string
	DistanceText string
	Listings     []ListingRecord
}

// ListingRecord is the raw text scraped for one movie at a theater.
// Showtimes are clock strings in page order.
type ListingRecord struct {
	TitleText         string
	RatingRuntimeText string
	MovieURL          string
	Showtimes         []string
}

// Ingest parses a scraped theater into the store. A theater whose own fields
// do not parse is rejected as a whole. A listing whose movie does not parse
// is skipped. A showtime that does not parse is skipped while the rest of its
// listing is kept. Errors for skipped items are returned alongside the theater.
func (c *Context) Ingest(rec TheaterRecord) (*Theater, error) {
	if c.RequestedDate.IsZero() {
		return nil, ErrNoRequestedDate
	}

	theater, err := NewTheater(rec.URL, rec.Name, rec.Address, rec.Phone, rec.DistanceText)
	if err != nil {
		return nil, fmt.Errorf("theater %q: %w", rec.URL, err)
	}
	c.Theaters.Set(theater)
	theater, _ = c.Theaters.Get(rec.URL)

	var errs []error
	for _, lr := range rec.Listings {
		if err := c.ingestListing(theater, lr); err != nil {
			errs = append(errs, fmt.Errorf("listing %q at %q: %w", lr.MovieURL, theater.URL, err))
		}
	}
	return theater, errors.Join(errs...)
}

func (c *Context) ingestListing(theater *Theater, lr ListingRecord) error {
	movie, ok := c.Movies.Get(lr.MovieURL)
	if !ok {
		var err error
		if movie, err = NewMovie(lr.MovieURL, lr.TitleText, lr.RatingRuntimeText); err != nil {
			return err
		}
	}

	var errs []error
	listing := NewListing(theater.ID(), movie.ID())
	for _, value := range lr.Showtimes {
		if _, err := listing.AddShowtime(value, c.RequestedDate); err != nil {
			errs = append(errs, err)
		}
	}

	c.Movies.Set(movie)
	c.AddListing(listing)
	return errors.Join(errs...)
}
