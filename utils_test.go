package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movietime/planner"
)

func TestParseRequestedDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"Saturday, February 2, 2019", time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)},
		{"  Saturday,\n   February 2,  2019 ", time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)},
		{"Sat, Feb 2, 2019", time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)},
		{"2019-02-02", time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)},
		{"2/2/2019", time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := parseRequestedDate(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "%q: got %v", tt.input, got)
	}

	_, err := parseRequestedDate("tomorrow")
	assert.Error(t, err)
}

func TestAtoi(t *testing.T) {
	assert.Equal(t, 7, atoi("7", 20))
	assert.Equal(t, 20, atoi("", 20))
	assert.Equal(t, 20, atoi("seven", 20))
	assert.Equal(t, 2.5, atof("2.5", 10))
	assert.Equal(t, 10.0, atof("", 10))
}

func TestGroupByTime(t *testing.T) {
	s := test_session(t)
	now := planner.ShowtimeAt(time.Date(2019, time.February, 2, 12, 0, 0, 0, time.Local))
	results := s.store.RemainingShowings(planner.Selection{}, now)
	require.Len(t, results, 5)

	groups := group_by_time(results)
	require.Len(t, groups, 5)
	assert.Equal(t, "1:00pm", groups[0].Showtime.String())
	assert.Equal(t, "12:15am", groups[4].Showtime.String())

	assert.Empty(t, group_by_time(nil))
}

func TestGroupByTime_SharedTimes(t *testing.T) {
	store := planner.NewContext()
	store.RequestedDate = time.Date(2019, time.February, 2, 0, 0, 0, 0, time.Local)
	for _, rec := range []planner.TheaterRecord{
		{Name: "Near", URL: lexURL, DistanceText: "1 mi.", Listings: []planner.ListingRecord{
			{TitleText: "Glass", RatingRuntimeText: "PG-13 | 2 hr 9 min", MovieURL: glassURL, Showtimes: []string{"7:00pm", "9:00pm"}},
		}},
		{Name: "Far", URL: brattleURL, DistanceText: "5 mi.", Listings: []planner.ListingRecord{
			{TitleText: "Glass", RatingRuntimeText: "PG-13 | 2 hr 9 min", MovieURL: glassURL, Showtimes: []string{"7:00pm"}},
		}},
	} {
		_, err := store.Ingest(rec)
		require.NoError(t, err)
	}

	now := planner.ShowtimeAt(store.RequestedDate)
	groups := group_by_time(store.RemainingShowings(planner.Selection{}, now))
	require.Len(t, groups, 2)
	require.Len(t, groups[0].Results, 2)
	assert.Equal(t, "Near", groups[0].Results[0].Theater.Name)
	assert.Equal(t, "Far", groups[0].Results[1].Theater.Name)
	assert.Len(t, groups[1].Results, 1)
}

func TestShowingLine(t *testing.T) {
	s := test_session(t)
	now := planner.ShowtimeAt(time.Date(2019, time.February, 2, 16, 0, 0, 0, time.Local))
	results := s.store.RemainingShowings(planner.Selection{}, now)
	require.NotEmpty(t, results)

	line := showing_line(results[0], s.store.Durations, 40)
	assert.Contains(t, line, "Three Identical Strangers (2018)")
	assert.Contains(t, line, "Lexington Venue")
	assert.Contains(t, line, "1.3 mi.")
	assert.Contains(t, line, "out 6:26pm")
}
