package planner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_JSONRoundTrip(t *testing.T) {
	brattle := TheaterRecord{
		Name: "The Brattle Theatre", URL: brattleURL, DistanceText: "6.5 mi.",
		Listings: []ListingRecord{{
			TitleText: "Glass", RatingRuntimeText: "PG-13 | 2 hr 9 min",
			MovieURL: glassURL, Showtimes: []string{"11:45pm", "1:00am"},
		}, {
			MovieURL: strangersURL, Showtimes: []string{"8:00pm"},
		}},
	}
	orig := newTestContext(t, lexingtonRecord(), brattle)

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	back := NewContext()
	require.NoError(t, json.Unmarshal(data, back))

	assert.True(t, back.RequestedDate.Equal(orig.RequestedDate))
	assert.Equal(t, orig.Movies.Keys(), back.Movies.Keys())
	assert.Equal(t, orig.Theaters.Keys(), back.Theaters.Keys())
	assert.Equal(t, orig.Listings.Keys(), back.Listings.Keys())

	for _, theater := range orig.Theaters.Values() {
		got, _ := back.Theaters.Get(theater.ID())
		assert.Equal(t, theater.ListingIDs, got.ListingIDs)
		assert.Equal(t, theater.Distance, got.Distance)
	}

	for _, listing := range orig.Listings.Values() {
		got, _ := back.Listings.Get(listing.ID())
		require.Len(t, got.Showings, len(listing.Showings))
		for i, s := range listing.Showings {
			assert.Equal(t, s.ID(), got.Showings[i].ID())
			assert.Same(t, got, back.ListingOf(got.Showings[i]))
		}
		movie, _ := back.Movies.Get(got.MovieID)
		assert.Same(t, movie, back.MovieOf(got), "resolved movie is the instance held by the store")
	}

	// The rolled-over showing survives as the next day.
	glass, _ := back.Listings.Get(ListingID(brattleURL, glassURL))
	assert.Equal(t, 3, glass.Showings[1].Showtime.Day())

	now := NewShowtime(2019, time.February, 2, 15, 0, est)
	assert.Equal(t, len(orig.RemainingShowings(Selection{}, now)), len(back.RemainingShowings(Selection{}, now)))
}

func TestContext_UnmarshalJSON_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":        `nope`,
		"bad date":        `{"requestedDate":"Feb 2"}`,
		"bad entry":       `{"movies":[["only-key"]]}`,
		"key mismatch":    `{"movies":[["a",{"url":"b"}]]}`,
		"unknown movie":   `{"theaters":[["t",{"url":"t"}]],"listings":[["t,m",{"theaterId":"t","movieId":"m"}]]}`,
		"unknown theater": `{"movies":[["m",{"url":"m"}]],"listings":[["t,m",{"theaterId":"t","movieId":"m"}]]}`,
		"bad showtime":    `{"movies":[["m",{"url":"m"}]],"theaters":[["t",{"url":"t"}]],"listings":[["t,m",{"theaterId":"t","movieId":"m","showings":[{"showtime":"7pm"}]}]]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewContext()
			assert.Error(t, json.Unmarshal([]byte(doc), c))
		})
	}
}

func TestContext_UnmarshalJSON_RelinksShowings(t *testing.T) {
	doc := `{
		"requestedDate": "2019-02-02T00:00:00-05:00",
		"movies": [["m", {"url": "m", "title": "M", "rating": "R", "runningTime": 5400000}]],
		"theaters": [["t", {"url": "t", "name": "T", "distance": 2, "distanceUnit": "mi.", "listingIds": ["stale"]}]],
		"listings": [["t,m", {"theaterId": "t", "movieId": "m", "showings": [
			{"listingId": "wrong", "showtime": "2019-02-02T19:00:00.000-05:00"}
		]}]]
	}`
	c := NewContext()
	require.NoError(t, json.Unmarshal([]byte(doc), c))

	theater, _ := c.Theaters.Get("t")
	assert.Equal(t, []string{"t,m"}, theater.ListingIDs)

	listing, _ := c.Listings.Get("t,m")
	assert.Equal(t, "t,m", listing.Showings[0].ListingID)
	assert.Equal(t, "7:00pm", listing.Showings[0].Showtime.String())

	movie, _ := c.Movies.Get("m")
	assert.Equal(t, "1h30m", movie.RunningTime.String())
}
