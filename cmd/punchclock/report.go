package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/warp/punchclock/export"
	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/punch"
)

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "first day YYYY-MM-DD (default: start of this week)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "last day YYYY-MM-DD (default: today)",
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:   "summary",
		Usage:  "print worked vs expected hours for every employee",
		Flags:  rangeFlags(),
		Action: summary,
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "write a summary or daily report as CSV or XLSX",
		Action: exportReport,
		Flags: append(rangeFlags(),
			&cli.StringFlag{
				Name:  "report",
				Value: "summary",
				Usage: "report kind: summary or daily",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "csv",
				Usage: "output format: csv or xlsx",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
		),
	}
}

// rangeFromFlags parses --from/--to, defaulting to the current week.
func rangeFromFlags(cmd *cli.Command, calc hours.Calculator, maxDays int) (hours.Range, error) {
	r := calc.CurrentWeek()
	if s := cmd.String("from"); s != "" {
		d, err := punch.ParseDay(s)
		if err != nil {
			return hours.Range{}, err
		}
		r.Start = d
	}
	if s := cmd.String("to"); s != "" {
		d, err := punch.ParseDay(s)
		if err != nil {
			return hours.Range{}, err
		}
		r.End = d
	}
	if err := r.Validate(maxDays); err != nil {
		return hours.Range{}, err
	}
	return r, nil
}

func summary(ctx context.Context, cmd *cli.Command) error {
	c, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	var calc hours.Calculator
	r, err := rangeFromFlags(cmd, calc, c.Server.MaxRangeDays)
	if err != nil {
		return err
	}

	store, b, err := openRecords(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	return printSummaries(os.Stdout, r, calc.SummarizeAll(store.ReadDatabase(ctx), r))
}

func printSummaries(w io.Writer, r hours.Range, summaries []hours.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Range\t%s\n\n", r)
	fmt.Fprintln(tw, "ID\tNAME\tWORKED\tEXPECTED\tBALANCE\tHOURS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.EmployeeID,
			s.Name,
			punch.SecondsToHHMM(s.WorkedSeconds),
			punch.SecondsToHHMM(s.ExpectedSeconds),
			punch.FormatSignedHHMM(s.BalanceSeconds()),
			s.WorkedHours().StringFixed(2),
		)
	}
	return tw.Flush()
}

func exportReport(ctx context.Context, cmd *cli.Command) error {
	c, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var calc hours.Calculator
	r, err := rangeFromFlags(cmd, calc, c.Server.MaxRangeDays)
	if err != nil {
		return err
	}

	store, b, err := openRecords(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	db := store.ReadDatabase(ctx)

	var rows [][]string
	switch report := cmd.String("report"); report {
	case "summary":
		rows = export.SummaryRows(calc.SummarizeAll(db, r))
	case "daily":
		rows = export.DailyRows(calc, db, r)
	default:
		return fmt.Errorf("unknown report %q (want summary or daily)", report)
	}

	path := cmd.String("output")
	if path == "" {
		return export.Write(os.Stdout, format, rows)
	}
	return writeReportFile(path, format, rows)
}

// writeReportFile writes rows to path, reporting a failed close.
func writeReportFile(path string, format export.Format, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return export.Write(f, format, rows)
}
