// Package cli implements the scanalign command line interface.
package cli

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/probemap/scanalign/pointcloud"
	"github.com/probemap/scanalign/registration"
)

// NewApp returns the scanalign CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:            "scanalign",
		Usage:           "merge overlapping scanner reports into one coordinate frame",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "align",
				Usage:     "align every scan in a report and summarize the result",
				ArgsUsage: "<report-file>",
				Action:    AlignAction,
			},
		},
	}
}

// AlignAction reads a scan report, aligns all scans into the frame of the
// first one, and prints the distinct point count, the maximum Manhattan
// spread between scanners, and each resolved scanner position.
func AlignAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one scan report file")
	}
	var logger golog.Logger
	if c.Bool("debug") {
		logger = golog.NewDebugLogger("scanalign")
	} else {
		logger = zap.NewNop().Sugar()
	}

	clouds, err := pointcloud.NewCloudsFromFile(c.Args().First(), logger)
	if err != nil {
		return err
	}
	placed, err := registration.Align(clouds, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "distinct points: %d\n", registration.UniquePointCount(placed))
	fmt.Fprintf(c.App.Writer, "max scanner spread: %d\n", registration.MaxScannerSpread(placed))
	for i, pl := range placed {
		fmt.Fprintf(c.App.Writer, "scanner %d at (%.0f,%.0f,%.0f)\n",
			i, pl.Position.X, pl.Position.Y, pl.Position.Z)
	}
	return nil
}
