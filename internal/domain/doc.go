// Package domain models the ZIP code to coordinate lookup table.
//
// # Data Source
//
// Input rows come from the U.S. Census Bureau gazetteer files for ZIP Code
// Tabulation Areas (ZCTAs), available at
// https://www.census.gov/geographies/reference-files/time-series/geo/gazetteer-files.html.
// Only three columns matter:
//
//	GEOID      ZCTA identifier, a 5-digit ZIP code. Spreadsheet exports often
//	           drop leading zeros, so "00501" arrives as "501".
//	INTPTLAT   latitude of the internal point, decimal degrees.
//	INTPTLONG  longitude of the internal point, decimal degrees.
//
// Other columns (ALAND, AWATER, ...) are ignored. Files saved by Windows tools
// may start with a UTF-8 byte-order mark; the reader strips it before the
// header is compared.
//
// # Keys
//
// A [NormalizedKey] is the GEOID left-padded with '0' to [KeyWidth]
// characters: "501" -> "00501". Keys that are already [KeyWidth] characters or
// longer are kept as-is unless strict key checking is enabled, in which case
// longer keys are rejected as malformed.
//
// # Output
//
// The lookup table is a single JSON object:
//
//	{
//	  "00501": [40.81, -73.04],
//	  "00544": [40.81, -73.04]
//	}
//
// Each value is a two-element array [latitude, longitude]. When the same key
// appears on several rows, the last row wins.
//
// # Queries
//
// Consumers look ZIP codes up with [Index.Lookup], which accepts loosely
// formatted input ("501", " 00501 ", "ZIP 00501") the same way the published
// JavaScript lookup library does.
package domain
