package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DelimiterDefault is the field separator used when none is configured.
const DelimiterDefault = '\t'

// readTable reads a delimited file and returns the trimmed header cells and
// the remaining rows. The reader enforces a rectangular shape: every row must
// have as many fields as the header.
func readTable(path string, delim rune) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening table file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("table %s has no header row", path)
	}

	header = all[0]
	for i, c := range header {
		header[i] = strings.TrimSpace(c)
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("table %s header has no value columns", path)
	}

	return header, all[1:], nil
}

// parseCell parses a single numeric table cell.
func parseCell(path, gene, cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("table %s row %q: non-numeric value %q: %w", path, gene, cell, err)
	}
	return v, nil
}
