package domain

import (
	"encoding/json"
	"fmt"
)

// Required header columns of the gazetteer layout. Names are case-sensitive.
const (
	KeyColumn       = "GEOID"
	LatitudeColumn  = "INTPTLAT"
	LongitudeColumn = "INTPTLONG"
)

// KeyWidth is the length of a NormalizedKey.
const KeyWidth = 5

// RequiredColumns returns the header columns every input must carry.
func RequiredColumns() []string {
	return []string{KeyColumn, LatitudeColumn, LongitudeColumn}
}

// InputRow maps header names to the raw field text of one data row.
// Columns missing from a short row are absent from the map.
type InputRow map[string]string

// NormalizedKey is a ZIP key padded to KeyWidth characters.
type NormalizedKey = string

// Coordinate is a WGS-84 latitude/longitude pair. It serializes as the
// two-element JSON array [lat, lng].
type Coordinate struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the coordinate as [lat, lng].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coordinate: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode coordinate: want 2 values, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// ZipMap maps each NormalizedKey to its coordinate.
type ZipMap map[NormalizedKey]Coordinate
