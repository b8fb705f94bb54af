package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"grider/internal/grid"
)

var ErrUnknownFormat = errors.New("storage: unknown document version")

// DocumentVersion is written into every .grider file.
const DocumentVersion = 1

// Document is the on-disk form of a sheet: layout plus the raw text of
// every non-empty cell keyed by label.
type Document struct {
	Version    int               `yaml:"version"`
	ColWidths  []int             `yaml:"col_widths,flow"`
	RowHeights []int             `yaml:"row_heights,flow"`
	Cells      map[string]string `yaml:"cells"`
}

// IsCSV decides the format from the file name or an explicit "csv" flag,
// and returns the path with a .csv extension when CSV is chosen.
func IsCSV(filename string, flag string) (string, bool) {
	if flag == "csv" || strings.EqualFold(filepath.Ext(filename), ".csv") {
		if !strings.EqualFold(filepath.Ext(filename), ".csv") {
			filename += ".csv"
		}
		return filename, true
	}
	return filename, false
}

// SaveCSV writes cells (label -> text) as a rectangular CSV grid.
func SaveCSV(cells map[string]string, filename string) error {
	maxR, maxC := -1, -1
	pos := make(map[[2]int]string, len(cells))
	for label, text := range cells {
		r, c, ok := grid.ParseCellRef(label)
		if !ok || text == "" {
			continue
		}
		pos[[2]int{r, c}] = text
		maxR, maxC = max(maxR, r), max(maxC, c)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()
	if maxR < 0 {
		return nil
	}

	out := make([][]string, maxR+1)
	for r := range out {
		row := make([]string, maxC+1)
		for c := range row {
			row[c] = pos[[2]int{r, c}]
		}
		out[r] = row
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads a CSV grid into label -> text. It also returns the highest
// row and column index seen, or -1 for an empty file.
func LoadCSV(filename string) (map[string]string, int, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, -1, -1, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, -1, -1, fmt.Errorf("error reading CSV: %w", err)
	}
	cells := map[string]string{}
	maxR, maxC := -1, -1
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val == "" {
				continue
			}
			cells[grid.Label(rIdx, cIdx)] = val
			maxR, maxC = max(maxR, rIdx), max(maxC, cIdx)
		}
	}
	return cells, maxR, maxC, nil
}

// SaveDocument writes doc as YAML.
func SaveDocument(doc Document, filename string) error {
	doc.Version = DocumentVersion
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// LoadDocument reads a YAML document and checks its version and labels.
func LoadDocument(filename string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(filename)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("error decoding document %s: %w", filename, err)
	}
	if doc.Version != DocumentVersion {
		return doc, fmt.Errorf("%w: %d", ErrUnknownFormat, doc.Version)
	}
	for label := range doc.Cells {
		if _, _, ok := grid.ParseCellRef(label); !ok {
			return doc, fmt.Errorf("document %s: bad cell label %q", filename, label)
		}
	}
	if doc.Cells == nil {
		doc.Cells = map[string]string{}
	}
	return doc, nil
}
