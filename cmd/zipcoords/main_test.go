package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/zipcoords-etl/internal/adapter/jsonsink"
	"github.com/couchcryptid/zipcoords-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "GEOID,INTPTLAT,INTPTLONG\n501,40.9,-72.6\n601,bad,-66.6\n210,41.5,-71.4\n"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_FORMAT", "json")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "zip_codes.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, sampleCSV)
	output := filepath.Join(dir, "map.json")
	metricsPath := filepath.Join(dir, "zipcoords.prom")

	out, err := runCLI(t, "convert", "-i", input, "-o", output, "--metrics-file", metricsPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Starting conversion of '"+input+"'...")
	assert.Contains(t, out, "Conversion complete! Saved 2 records to '"+output+"'.")
	assert.Contains(t, out, "Skipped rows with invalid coordinates:")
	assert.Contains(t, out, "601")

	got, err := jsonsink.Load(output)
	require.NoError(t, err)
	assert.Equal(t, domain.ZipMap{
		"00501": {Lat: 40.9, Lng: -72.6},
		"00210": {Lat: 41.5, Lng: -71.4},
	}, got)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "zipcoords_rows_skipped_total 1")
}

func TestRootRunsConvert(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, sampleCSV)
	output := filepath.Join(dir, "map.json")

	out, err := runCLI(t, "--input", input, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 records")
}

func TestConvertCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, strings.ReplaceAll(sampleCSV, ",", ";"))
	output := filepath.Join(dir, "map.json")
	cfgPath := filepath.Join(dir, "zipcoords.toml")
	body := "input = " + quote(input) + "\noutput = " + quote(output) + "\ndelimiter = \";\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	out, err := runCLI(t, "--config", cfgPath, "convert")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 records")
}

func TestConvertCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.csv")
	output := filepath.Join(dir, "map.json")

	_, err := runCLI(t, "convert", "-i", input, "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the file '"+input+"' was not found")
	assert.ErrorIs(t, err, domain.ErrIO)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertCommand_SchemaError(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "GEOID,LAT,INTPTLONG\n501,40.9,-72.6\n")
	output := filepath.Join(dir, "map.json")

	_, err := runCLI(t, "convert", "-i", input, "-o", output)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchema)
	assert.Contains(t, err.Error(), "Found: [GEOID, LAT, INTPTLONG]")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertCommand_InvalidDelimiter(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, sampleCSV)

	_, err := runCLI(t, "convert", "-i", input, "-o", filepath.Join(dir, "map.json"), "-d", "::")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConvertCommand_FlagOverridesInvalidEnv(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, sampleCSV)
	output := filepath.Join(dir, "map.json")
	t.Setenv("ZIPCOORDS_OUTPUT", input)

	out, err := runCLI(t, "convert", "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 records")
}

func TestLookupCommand_IgnoresUnrelatedSettings(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.json")
	data, err := jsonsink.Encode(domain.ZipMap{"00501": {Lat: 40.81, Lng: -73.04}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(mapPath, data, 0o600))
	t.Setenv("ZIPCOORDS_OUTPUT", mapPath)
	t.Setenv("LOG_LEVEL", "verbose")

	out, err := runCLI(t, "lookup", "501")
	require.NoError(t, err)
	assert.Contains(t, out, "40.81")
}

func TestLookupCommand(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.json")
	data, err := jsonsink.Encode(domain.ZipMap{"00501": {Lat: 40.81, Lng: -73.04}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(mapPath, data, 0o600))

	out, err := runCLI(t, "lookup", "--map", mapPath, "501")
	require.NoError(t, err)
	assert.Contains(t, out, "00501")
	assert.Contains(t, out, "40.81")
	assert.Contains(t, out, "-73.04")

	out, err = runCLI(t, "lookup", "--map", mapPath, "--json", "501", "99999", "abc")
	require.ErrorIs(t, err, errLookupMisses)

	var results []lookupResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.True(t, results[0].Found)
	assert.Equal(t, "00501", results[0].ZIP)
	assert.InDelta(t, 40.81, *results[0].Latitude, 0)
	assert.False(t, results[1].Found)
	assert.Equal(t, "no coordinates found", results[1].Error)
	assert.Equal(t, "not a valid 5-digit ZIP code", results[2].Error)
}

func TestLookupCommand_MissingMap(t *testing.T) {
	_, err := runCLI(t, "lookup", "--map", filepath.Join(t.TempDir(), "none.json"), "501")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, sampleCSV)
	output := filepath.Join(dir, "map.json")

	_, err := runCLI(t, "convert", "-i", input, "-o", output)
	require.NoError(t, err)

	out, err := runCLI(t, "verify", "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")

	data, err := jsonsink.Encode(domain.ZipMap{"00501": {Lat: 40.9, Lng: -72.6}, "99999": {Lat: 1, Lng: 2}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(output, data, 0o600))

	out, err = runCLI(t, "verify", "-i", input, "-o", output)
	require.ErrorIs(t, err, errVerifyFailed)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "00210")
	assert.Contains(t, out, "99999")
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
