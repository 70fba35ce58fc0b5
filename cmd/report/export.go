package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/storage"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
	"github.com/urfave/cli/v2"
)

type exporter struct {
	outputDir string
	store     storage.ObjectStorage
}

func newExporter(c *cli.Context) (*exporter, error) {
	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure output dir %s: %w", outputDir, err)
	}

	e := &exporter{outputDir: outputDir}
	if c.Bool("upload") {
		client, err := newStorageClient(c)
		if err != nil {
			return nil, err
		}
		e.store = client
	}
	return e, nil
}

func (e *exporter) export(ctx context.Context, result *report.Result) error {
	name := result.Schema.Name

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := e.write(ctx, name+".json", "application/json", payload); err != nil {
		return err
	}

	csvData, err := renderCSV(result)
	if err != nil {
		return fmt.Errorf("render %s csv: %w", name, err)
	}
	return e.write(ctx, name+".csv", "text/csv", csvData)
}

func (e *exporter) write(ctx context.Context, filename, contentType string, data []byte) error {
	path := filepath.Join(e.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", path, err)
	}
	if e.store != nil {
		key := exportPrefix + filename
		if err := e.store.UploadObject(ctx, key, contentType, data); err != nil {
			return err
		}
	}
	return nil
}

func renderCSV(result *report.Result) ([]byte, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	cols := result.Schema.Columns
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	for i := 0; i < result.Table.Len(); i++ {
		record := make([]string, len(cols))
		for j, col := range cols {
			record[j] = formatCell(result.Table.Cell(i, col))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// formatCell renders a cell for CSV output. Null cells export as empty
// fields, matching how blank source values read back in.
func formatCell(c table.Cell) string {
	if c.IsNull() {
		return ""
	}
	if v, ok := c.AsNumber(); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v, ok := c.AsDate(); ok {
		return v.Format("2006-01-02")
	}
	v, _ := c.AsString()
	return v
}
