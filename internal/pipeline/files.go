package pipeline

import (
	"context"

	"github.com/couchcryptid/zipcoords-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/zipcoords-etl/internal/adapter/jsonsink"
)

// ConvertFiles runs Convert from the delimited file at inputPath to the JSON
// document at outputPath. The input is opened first, so a missing input
// fails with a *domain.IOError before the output is created or replaced.
func (c *Converter) ConvertFiles(ctx context.Context, inputPath, outputPath string, delimiter rune) (Result, error) {
	c.logger.Info("starting conversion", "input", inputPath, "output", outputPath)

	src, err := csvsource.Open(inputPath, delimiter)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	return c.Convert(ctx, src, jsonsink.NewWriter(outputPath))
}
