package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidateHeader checks that every required column is present in header.
// It returns a *SchemaError listing what was found otherwise.
func ValidateHeader(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	found := make([]string, len(header))
	copy(found, header)
	return &SchemaError{Found: found, Missing: missing}
}

// NormalizeKey trims raw and left-pads it with '0' to KeyWidth characters.
// Keys already KeyWidth characters or longer are returned unchanged.
func NormalizeKey(raw string) NormalizedKey {
	key := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(key); n < KeyWidth {
		key = strings.Repeat("0", KeyWidth-n) + key
	}
	return key
}

// ParseRow extracts the normalized key and coordinate from row. Rows whose
// latitude or longitude is missing, empty, or not a finite number yield a
// *RowParseError. With strict set, keys longer than KeyWidth are rejected too.
func ParseRow(row InputRow, strict bool) (NormalizedKey, Coordinate, error) {
	rawKey := row[KeyColumn]

	lat, err := parseCoordinateField(row, LatitudeColumn)
	if err != nil {
		err.Key = rawKey
		return "", Coordinate{}, err
	}
	lng, err := parseCoordinateField(row, LongitudeColumn)
	if err != nil {
		err.Key = rawKey
		return "", Coordinate{}, err
	}

	key := NormalizeKey(rawKey)
	if strict && utf8.RuneCountInString(key) > KeyWidth {
		return "", Coordinate{}, &RowParseError{
			Key:   rawKey,
			Field: KeyColumn,
			Value: rawKey,
			Err:   errKeyTooLong,
		}
	}

	return key, Coordinate{Lat: lat, Lng: lng}, nil
}

// parseCoordinateField parses one column as a float64. NaN and infinities are
// rejected because JSON cannot carry them.
func parseCoordinateField(row InputRow, column string) (float64, *RowParseError) {
	raw, ok := row[column]
	if !ok {
		return 0, &RowParseError{Field: column, Err: errFieldMissing}
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &RowParseError{Field: column, Value: raw, Err: errFieldEmpty}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &RowParseError{Field: column, Value: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &RowParseError{Field: column, Value: raw, Err: errNotFinite}
	}
	return v, nil
}
