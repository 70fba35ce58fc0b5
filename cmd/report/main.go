package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/source/csvsource"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "report",
		Usage: "Compute delivery performance report views",
		Commands: []*cli.Command{
			{
				Name:   "views",
				Usage:  "List the available views and their columns",
				Action: listViews,
			},
			{
				Name:  "build",
				Usage: "Compute views and export them as JSON and CSV",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "db-url",
						Usage:   "Database connection string; overrides the CSV inputs",
						EnvVars: []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "facts",
						Usage:   "Path to the order facts CSV",
						Value:   "./data/order_facts.csv",
						EnvVars: []string{"REPORT_FACTS_PATH"},
					},
					&cli.StringFlag{
						Name:    "customers",
						Usage:   "Path to the customers CSV",
						Value:   "./data/customers.csv",
						EnvVars: []string{"REPORT_CUSTOMERS_PATH"},
					},
					&cli.StringFlag{
						Name:    "date-layout",
						Usage:   "Go reference layout of the fact date columns",
						EnvVars: []string{"REPORT_DATE_LAYOUT"},
					},
					&cli.StringFlag{
						Name:  "views",
						Usage: "Comma-separated view names; default is all views",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Usage:   "Directory the exports are written to",
						Value:   "./data/output",
						EnvVars: []string{"REPORT_OUTPUT_DIR"},
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also upload the exports to object storage",
					},
				}, storageFlags()...),
				Action: buildViews,
			},
			{
				Name:  "exports",
				Usage: "Work with exports archived in object storage",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List archived exports",
						Flags:  storageFlags(),
						Action: listExports,
					},
					{
						Name:  "fetch",
						Usage: "Download an archived export by key",
						Flags: append([]cli.Flag{
							&cli.StringFlag{
								Name:  "dest",
								Usage: "Directory the export is written to",
								Value: "./data/output",
							},
						}, storageFlags()...),
						Action: fetchExport,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func listViews(c *cli.Context) error {
	for _, name := range report.ViewNames() {
		schema, _ := report.Schema(name)
		fmt.Printf("%s (v%d)\n  %s\n", schema.Name, schema.Version, strings.Join(schema.Columns, ", "))
	}
	return nil
}

func buildViews(c *cli.Context) error {
	views := report.ViewNames()
	if raw := c.String("views"); raw != "" {
		views = views[:0]
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := report.Schema(v); !ok {
				return fmt.Errorf("unknown view %q", v)
			}
			views = append(views, v)
		}
	}

	in, dateLayout, err := loadInput(c)
	if err != nil {
		return err
	}

	assembler := report.NewAssembler(dateLayout)
	exporter, err := newExporter(c)
	if err != nil {
		return err
	}

	for _, view := range views {
		result, err := assembler.Build(view, in)
		if err != nil {
			return fmt.Errorf("build %s: %w", view, err)
		}
		if err := exporter.export(c.Context, result); err != nil {
			return err
		}
		log.Printf("built %s: %d rows", view, result.Table.Len())
	}
	return nil
}

// loadInput picks the data source: a database when --db-url is set, the
// CSV pair otherwise.
func loadInput(c *cli.Context) (report.Input, string, error) {
	if dbURL := c.String("db-url"); dbURL != "" {
		in, err := loadFromDB(c.Context, dbURL)
		return in, "2006-01-02", err
	}

	src := csvsource.New(c.String("facts"), c.String("customers"), c.String("date-layout"))
	in, err := src.Load(c.Context)
	return in, src.DateLayout(), err
}
