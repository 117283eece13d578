/*
main.go - punchclock entry point

COMMANDS:
  serve     Run the HTTP API and serve the browser pages
  summary   Print worked vs expected hours for every employee
  export    Write a CSV or XLSX report to a file or stdout

CONFIGURATION:
  All commands read PUNCHCLOCK_* environment variables (see config/).
  Flags given on the command line win over the environment.

EXAMPLES:
  # Serve with the default SQLite file
  punchclock serve

  # Serve from Redis
  PUNCHCLOCK_STORAGE_BACKEND=redis PUNCHCLOCK_REDIS_ADDR=cache:6379 punchclock serve

  # Last month's daily report as a spreadsheet
  punchclock export --report=daily --format=xlsx --from=2025-02-01 --to=2025-02-28 -o feb.xlsx
*/
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/warp/punchclock/log"
)

func main() {
	cmd := &cli.Command{
		Name:  "punchclock",
		Usage: "employee clock-in/clock-out service and reports",
		Flags: storageFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			summaryCommand(),
			exportCommand(),
		},
	}

	ctx := context.Background()
	logger := log.New("punchclock")
	ctx = log.IntoContext(ctx, logger.With("command", cmd.Name))

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(-1)
	}
}
