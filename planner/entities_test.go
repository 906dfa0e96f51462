package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lexingtonURL = "https://www.moviefone.com/theater/lexington-venue/2042/showtimes/"
	strangersURL = "https://www.moviefone.com/movie/three-identical-strangers/pBVodF8RCax5biHUdPdH45/main/"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	t.Cleanup(SetClock(func() time.Time { return at }))
}

func TestNewMovie(t *testing.T) {
	fixClock(t, time.Date(2019, time.February, 2, 12, 0, 0, 0, est))

	m, err := NewMovie(strangersURL, "Three Identical Strangers  (2018)", "\n  PG-13\n\n  | 1 hr 36 min\n")
	require.NoError(t, err)
	assert.Equal(t, strangersURL, m.ID())
	assert.Equal(t, "Three Identical Strangers (2018)", m.Title, "prior year is kept")
	assert.Equal(t, "PG-13", m.Rating)
	assert.Equal(t, int64(5760000), m.RunningTime.Milliseconds())
	assert.Equal(t, "1 hr 36 min", m.RunningTimeString())
	assert.Equal(t, "PG-13 | 1 hr 36 min", m.Footer())
	assert.Equal(t, "Three Identical Strangers (2018) - 1:36 | PG-13", m.String())
}

func TestNewMovie_StripsCurrentYear(t *testing.T) {
	fixClock(t, time.Date(2019, time.February, 2, 12, 0, 0, 0, est))

	tests := map[string]string{
		"Glass (2019)":            "Glass",
		"Glass  (2019)":           "Glass",
		"Glass(2019)":             "Glass(2019)",
		"(2019)":                  "(2019)",
		"Glass (2019) Director's": "Glass (2019) Director's",
		"Suspiria (1977)":         "Suspiria (1977)",
	}
	for in, want := range tests {
		m, err := NewMovie("u", in, "R | 2 hr 0 min")
		require.NoError(t, err)
		assert.Equal(t, want, m.Title, in)
	}
}

func TestNewMovie_MinutesOnly(t *testing.T) {
	m, err := NewMovie("u", "Short", "NR | 45 min")
	require.NoError(t, err)
	assert.Equal(t, "NR", m.Rating)
	assert.Equal(t, "45 min", m.RunningTimeString())
}

func TestNewMovie_InvalidRatingRuntime(t *testing.T) {
	for _, in := range []string{"", "PG-13", "PG-13 | soon", "PG-13 | 1 hr min"} {
		_, err := NewMovie("u", "T", in)
		assert.ErrorIs(t, err, ErrInvalidRatingRuntime, in)
	}
}

func TestNewTheater(t *testing.T) {
	th, err := NewTheater(lexingtonURL, " Lexington  Venue ", "1370 Massachusetts Ave, Lexington, MA", "(781) 861-6161", "1.3 mi.")
	require.NoError(t, err)
	assert.Equal(t, lexingtonURL, th.ID())
	assert.Equal(t, "Lexington Venue", th.Name)
	assert.Equal(t, 1.3, th.Distance)
	assert.Equal(t, "mi.", th.DistanceUnit)
	assert.Equal(t, "1.3 mi.", th.DistanceString())
	assert.Equal(t, "1.3 mi. | (781) 861-6161\n1370 Massachusetts Ave, Lexington, MA", th.Footer())
	assert.Empty(t, th.ListingIDs)
}

func TestNewTheater_InvalidDistance(t *testing.T) {
	for _, in := range []string{"", "1.3", "far mi.", "mi. 1.3", "NaN mi.", "Inf mi.", "-Inf mi.", "-2 mi."} {
		_, err := NewTheater("u", "n", "a", "p", in)
		assert.ErrorIs(t, err, ErrInvalidDistance, in)
	}
}

func TestListing_IDs(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	assert.Equal(t, lexingtonURL+","+strangersURL, l.ID())

	s, err := l.AddShowtime("2:00pm", requestedDate())
	require.NoError(t, err)
	assert.Equal(t, l.ID(), s.ListingID)
	assert.Equal(t, l.ID()+","+s.Showtime.ISOString(), s.ID())
	assert.Equal(t, l.ID()+",2019-02-02T19:00:00.000Z", s.ID())
}

func TestListing_AddShowtime_PageOrder(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	for _, v := range []string{"2:00pm", "4:30pm", "7:00pm"} {
		_, err := l.AddShowtime(v, requestedDate())
		require.NoError(t, err)
	}
	require.Len(t, l.Showings, 3)
	assert.Equal(t, "2:00pm", l.Showings[0].Showtime.String())
	assert.Equal(t, "4:30pm", l.Showings[1].Showtime.String())
	assert.Equal(t, "7:00pm", l.Showings[2].Showtime.String())
	for _, s := range l.Showings {
		assert.Equal(t, 2, s.Showtime.Day())
	}
}

func TestListing_AddShowtime_RollsOverMidnight(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	_, err := l.AddShowtime("11:45pm", requestedDate())
	require.NoError(t, err)
	_, err = l.AddShowtime("1:00am", requestedDate())
	require.NoError(t, err)

	first, second := l.Showings[0].Showtime, l.Showings[1].Showtime
	assert.Equal(t, 2, first.Day())
	assert.Equal(t, 3, second.Day())
	assert.Equal(t, 1, second.Hour())
	assert.Equal(t, 0, second.Minute())
	assert.True(t, second.Equal(NewShowtime(2019, time.February, 3, 1, 0, est)))
}

func TestListing_AddShowtime_StaysMonotonic(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	for _, v := range []string{"10:00pm", "11:30pm", "1:00am", "10:30pm", "12:30am"} {
		_, err := l.AddShowtime(v, requestedDate())
		require.NoError(t, err)
	}
	for i := 1; i < len(l.Showings); i++ {
		assert.LessOrEqual(t, CompareShowings(l.Showings[i-1], l.Showings[i]), 0)
	}
	assert.Equal(t, 4, l.Showings[4].Showtime.Day())
}

func TestListing_AddShowtime_EqualTimesDoNotRoll(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	_, err := l.AddShowtime("7:00pm", requestedDate())
	require.NoError(t, err)
	_, err = l.AddShowtime("7:00pm", requestedDate())
	require.NoError(t, err)
	assert.True(t, l.Showings[0].Showtime.Equal(l.Showings[1].Showtime))
}

func TestListing_AddShowtime_InvalidLeavesListingUnchanged(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	_, err := l.AddShowtime("2:00pm", requestedDate())
	require.NoError(t, err)

	_, err = l.AddShowtime("tba", requestedDate())
	assert.ErrorIs(t, err, ErrInvalidShowtime)
	require.Len(t, l.Showings, 1)

	_, err = l.AddShowtime("4:30pm", requestedDate())
	require.NoError(t, err)
	assert.Len(t, l.Showings, 2)
}

func TestListing_ShowingsAfter(t *testing.T) {
	l := NewListing(lexingtonURL, strangersURL)
	for _, v := range []string{"2:00pm", "4:30pm", "7:00pm"} {
		_, err := l.AddShowtime(v, requestedDate())
		require.NoError(t, err)
	}

	now := NewShowtime(2019, time.February, 2, 16, 30, est)
	after := l.ShowingsAfter(now)
	require.Len(t, after, 2)
	assert.Equal(t, "4:30pm", after[0].Showtime.String())
	assert.True(t, l.AreShowingsAfter(now))

	late := NewShowtime(2019, time.February, 2, 19, 1, est)
	assert.Empty(t, l.ShowingsAfter(late))
	assert.False(t, l.AreShowingsAfter(late))
}
