// Command zipcoords converts a ZIP code gazetteer table into a JSON lookup
// object and answers lookups against the result.
//
// Usage:
//
//	zipcoords [--input zip_codes.csv] [--output us_zip_to_coords_map.json]
//	zipcoords convert --input 2020_Gaz_zcta_national.txt --delimiter tab
//	zipcoords lookup 501 90210
//
// Settings come from defaults, an optional TOML file (--config or
// ZIPCOORDS_CONFIG), environment variables, and flags, in that order.
package main
