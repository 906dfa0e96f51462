package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gocolly/colly"

	"movietime/planner"
)

// Moviefone scrapes theater listings around a location from moviefone.com
// (or a site with the same markup) into a planner.Context.
type Moviefone struct {
	base_url     string
	max_distance float64
	max_pages    int
}

func NewMoviefone(base_url string, max_distance float64, max_pages int) *Moviefone {
	if max_pages <= 0 {
		max_pages = 20
	}
	return &Moviefone{
		base_url:     strings.TrimRight(base_url, "/"),
		max_distance: max_distance,
		max_pages:    max_pages,
	}
}

func (m *Moviefone) new_collector() (*colly.Collector, error) {
	u, err := url.Parse(m.base_url)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", m.base_url)
	}
	return colly.NewCollector(colly.AllowedDomains(u.Host, u.Hostname())), nil
}

// page is what one listings page contributed.
type page struct {
	theaters int
	far      bool
	err      error
}

// CollectListings clears store and fills it with the theaters within
// max_distance of location. The set-location page redirects to the first
// listings page; later pages are that URL with "?page=N". Pages are read
// until one has no theaters or reaches a theater farther than max_distance.
// Theaters and listings that do not parse are logged and skipped.
func (m *Moviefone) CollectListings(store *planner.Context, location string) error {
	store.Clear()

	c, err := m.new_collector()
	if err != nil {
		return err
	}
	within := "[0, " + strconv.FormatFloat(m.max_distance, 'f', -1, 64) + "]"

	var listings_url string
	var current page
	c.OnResponse(func(r *colly.Response) {
		if listings_url != "" {
			return
		}
		u := *r.Request.URL
		u.RawQuery = ""
		listings_url = u.String()
		log.Debug(fmt.Sprintf("Listings for %s are at %s", location, listings_url))
	})
	c.OnHTML(".controls-date", func(e *colly.HTMLElement) {
		date, err := parseRequestedDate(e.Text)
		if err != nil {
			current.err = err
			return
		}
		store.RequestedDate = date
	})
	c.OnHTML(".theater", func(e *colly.HTMLElement) {
		current.theaters++
		rec := theater_record(e)

		distance, _, err := planner.ParseDistance(rec.DistanceText)
		if err != nil {
			log.Warn(fmt.Sprintf("Skipping theater '%s': %v", rec.Name, err))
			return
		}
		if ok, err := planner.IsInInterval(distance, within); err != nil || !ok {
			current.far = true
			return
		}

		theater, err := store.Ingest(rec)
		if theater == nil {
			log.Warn(fmt.Sprintf("Skipping theater '%s': %v", rec.Name, err))
			return
		}
		if err != nil {
			log.Warn(fmt.Sprintf("Some listings at '%s' were skipped: %v", rec.Name, err))
		}
	})

	target := fmt.Sprintf("%s/set-location/?location=%s", m.base_url, url.QueryEscape(location))
	for n := 1; n <= m.max_pages; n++ {
		if n > 1 {
			target = fmt.Sprintf("%s?page=%d", listings_url, n)
		}
		current = page{}
		log.Info(fmt.Sprintf("Checking page %d...", n))
		if err := c.Visit(target); err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		if current.err != nil {
			return fmt.Errorf("page %d: %w", n, current.err)
		}
		if current.theaters == 0 || current.far {
			return nil
		}
	}
	log.Warn(fmt.Sprintf("Stopped after %d pages", m.max_pages))
	return nil
}

func theater_record(e *colly.HTMLElement) planner.TheaterRecord {
	rec := planner.TheaterRecord{
		Name:         e.ChildText("a.theater-name"),
		URL:          e.Request.AbsoluteURL(e.ChildAttr("a.theater-name", "href")),
		Address:      e.ChildText(".address a"),
		Phone:        e.ChildText(".theater-phone"),
		DistanceText: e.ChildText(".mileage"),
	}
	e.ForEach(".showtimes .movie-listing", func(_ int, el *colly.HTMLElement) {
		lr := planner.ListingRecord{
			TitleText:         el.ChildText(".moviedata .movietitle a"),
			RatingRuntimeText: el.ChildText(".moviedata .movierating-runtime"),
			MovieURL:          el.Request.AbsoluteURL(el.ChildAttr(".moviedata .movietitle a", "href")),
		}
		// page order matters for day rollover
		el.ForEach(".showtimes-list .stDisplay, .showtimes-list .showtime-display a", func(_ int, st *colly.HTMLElement) {
			lr.Showtimes = append(lr.Showtimes, strings.TrimSpace(st.Text))
		})
		rec.Listings = append(rec.Listings, lr)
	})
	return rec
}
