package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/zipcoords-etl/internal/adapter/jsonsink"
	"github.com/couchcryptid/zipcoords-etl/internal/config"
	"github.com/couchcryptid/zipcoords-etl/internal/domain"
)

// errLookupMisses is returned when at least one query had no coordinates.
var errLookupMisses = errors.New("some ZIP codes were not found")

type lookupResult struct {
	Query     string   `json:"query"`
	ZIP       string   `json:"zip,omitempty"`
	Found     bool     `json:"found"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func newLookupCommand(configFlag *string) *cobra.Command {
	var mapPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lookup ZIP...",
		Short: "Look up coordinates for ZIP codes in a converted document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("map") {
				cfg, err := config.Load(*configFlag)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				mapPath = cfg.OutputPath
			}

			zm, err := jsonsink.Load(mapPath)
			if err != nil {
				return err
			}
			results := lookupAll(domain.NewIndex(zm), args)

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printLookup(cmd, results)
			}

			for _, r := range results {
				if !r.Found {
					return errLookupMisses
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mapPath, "map", "m", "", "JSON lookup document (defaults to the configured output)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func lookupAll(ix *domain.Index, queries []string) []lookupResult {
	results := make([]lookupResult, 0, len(queries))
	for _, q := range queries {
		r := lookupResult{Query: q}
		key, ok := domain.NormalizeQuery(q)
		if !ok {
			r.Error = "not a valid 5-digit ZIP code"
			results = append(results, r)
			continue
		}
		r.ZIP = key
		if c, found := ix.Lookup(key); found {
			r.Found = true
			r.Latitude = &c.Lat
			r.Longitude = &c.Lng
		} else {
			r.Error = "no coordinates found"
		}
		results = append(results, r)
	}
	return results
}

func printLookup(cmd *cobra.Command, results []lookupResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if !r.Found {
			rows = append(rows, []string{r.Query, r.ZIP, "", "", r.Error})
			continue
		}
		rows = append(rows, []string{
			r.Query,
			r.ZIP,
			strconv.FormatFloat(*r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(*r.Longitude, 'f', -1, 64),
			"",
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Query", "ZIP", "Latitude", "Longitude", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}
