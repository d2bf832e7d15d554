package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Black-And-White-Club/wallchart/app"
	bracketservice "github.com/Black-And-White-Club/wallchart/app/modules/bracket/application"
	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := newCLIApp(os.Stdout, os.Stderr)
	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runner holds the App built from the global flags before any command runs.
type runner struct {
	app *app.App
}

func newCLIApp(stdout, stderr io.Writer) *cli.App {
	r := &runner{}

	return &cli.App{
		Name:      "wallchart",
		Usage:     "score a tournament prediction workbook",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"WALLCHART_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
			}
			logger, err := observability.NewLogger(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			r.app, err = app.NewApp(cfg, logger, observability.NewPrometheusMetrics())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
		Commands: []*cli.Command{
			r.processCommand(),
			r.bracketCommand(),
		},
	}
}

func (r *runner) processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "update group tables and the player leaderboard from recorded results",
		ArgsUsage: "<file_name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "compute and log everything without saving"},
			&cli.StringFlag{Name: "chart", Usage: "write a PNG bar chart of the leaderboard to this path"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: wallchart process [--dry-run] [--chart out.png] <file_name>", 1)
			}

			report, err := r.app.ProcessResults(c.Context, c.Args().First(), app.ProcessOptions{
				DryRun:    c.Bool("dry-run"),
				ChartPath: c.String("chart"),
			})
			if err != nil {
				return exitError(err)
			}

			for i, s := range report.Leaderboard {
				fmt.Fprintf(c.App.Writer, "%2d. %-20s %d\n", i+1, s.Player, s.Points)
			}
			return nil
		},
	}
}

func (r *runner) bracketCommand() *cli.Command {
	return &cli.Command{
		Name:      "bracket",
		Usage:     "replace placeholder names in the knock-out bracket of every sheet",
		ArgsUsage: "<file_name> [<name_to_replace>, <replacement_name>, ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "single placeholder to replace"},
			&cli.StringFlag{Name: "to", Usage: "replacement for --from"},
		},
		Action: func(c *cli.Context) error {
			var (
				replacements map[string]string
				err          error
			)
			switch {
			case c.IsSet("from") || c.IsSet("to"):
				if c.NArg() != 1 {
					return cli.Exit("usage: wallchart bracket --from <name> --to <name> <file_name>", 1)
				}
				replacements, err = bracketservice.SingleReplacement(c.String("from"), c.String("to"))
			default:
				if c.NArg() != 2 {
					return cli.Exit("usage: wallchart bracket <file_name> <list_of_replacements>", 1)
				}
				replacements, err = bracketservice.ParseReplacements(c.Args().Get(1))
			}
			if err != nil {
				return exitError(err)
			}

			counts, err := r.app.UpdateBracket(c.Context, c.Args().First(), replacements)
			if err != nil {
				return exitError(err)
			}

			for _, sc := range counts {
				fmt.Fprintf(c.App.Writer, "%s: %d replaced\n", sc.Sheet, sc.Count)
			}
			return nil
		},
	}
}

// exitError turns an App error into the message printed to the user and a
// non-zero exit code.
func exitError(err error) error {
	var notFound *workbook.DocumentNotFoundError
	switch {
	case errors.As(err, &notFound):
		return cli.Exit(notFound.Error(), 1)
	case errors.Is(err, resultstypes.ErrNoResultsRecorded):
		return cli.Exit("No match results have been recorded, nothing to process.", 1)
	default:
		return cli.Exit(err.Error(), 1)
	}
}
