package planner

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidDistance is returned for distance text not in "<number> <unit>" form.
var ErrInvalidDistance = errors.New("invalid distance")

// Theater is a venue in the requested area. ListingIDs refer to the
// theater's listings in the Context; the listings themselves are not held.
type Theater struct {
	URL          string   `json:"url"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Distance     float64  `json:"distance"`
	DistanceUnit string   `json:"distanceUnit"`
	ListingIDs   []string `json:"listingIds"`
}

// NewTheater builds a theater from scraped fragments. distanceText is
// "<number> <unit>", e.g. "1.3 mi.".
func NewTheater(url, name, address, phone, distanceText string) (*Theater, error) {
	distance, unit, err := ParseDistance(distanceText)
	if err != nil {
		return nil, err
	}
	return &Theater{
		URL:          url,
		Name:         collapseSpace(name),
		Address:      collapseSpace(address),
		Phone:        collapseSpace(phone),
		Distance:     distance,
		DistanceUnit: unit,
	}, nil
}

// ParseDistance splits "<number> <unit>" text such as "1.3 mi.". The number
// must be finite and not negative.
func ParseDistance(text string) (float64, string, error) {
	num, unit, ok := strings.Cut(collapseSpace(text), " ")
	if !ok || unit == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidDistance, text)
	}
	distance, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidDistance, text)
	}
	return distance, unit, nil
}

func (t *Theater) ID() string { return t.URL }

// DistanceString is the distance as the listings site shows it, e.g. "1.3 mi.".
func (t *Theater) DistanceString() string {
	return strconv.FormatFloat(t.Distance, 'f', -1, 64) + " " + t.DistanceUnit
}

// Footer is the secondary text shown under the name in theater lists.
func (t *Theater) Footer() string {
	return t.DistanceString() + " | " + t.Phone + "\n" + t.Address
}

func (t *Theater) addListing(id string) {
	if slices.Contains(t.ListingIDs, id) {
		return
	}
	t.ListingIDs = append(t.ListingIDs, id)
}
