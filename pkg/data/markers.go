package data

import (
	"log/slog"
)

// MarkerTable holds the marker gene weights loaded from the gene markers
// file. Weights maps gene ID to per-category weight, MaxScore is the sum of
// all marker weights per category (the highest score a sample can
// accumulate), and Categories preserves the file's column order.
type MarkerTable struct {
	Weights    map[string]map[string]float64
	MaxScore   map[string]float64
	Categories []string
}

// LoadMarkers reads the gene markers file. The first column is the gene ID,
// the header row (minus its first cell) names the categories. Every other
// cell must parse as a number and every row must match the header length.
func LoadMarkers(path string, delim rune) (*MarkerTable, error) {
	slog.Debug("reading markers file", "path", path)

	header, rows, err := readTable(path, delim)
	if err != nil {
		return nil, err
	}
	categories := header[1:]

	t := &MarkerTable{
		Weights:    make(map[string]map[string]float64, len(rows)),
		MaxScore:   make(map[string]float64, len(categories)),
		Categories: categories,
	}

	for _, row := range rows {
		gene := row[0]
		weights := make(map[string]float64, len(categories))
		for i, cat := range categories {
			w, err := parseCell(path, gene, row[i+1])
			if err != nil {
				return nil, err
			}
			weights[cat] = w
		}
		t.Weights[gene] = weights
	}

	// Sum from the final map so a duplicated gene row counts once.
	for _, weights := range t.Weights {
		for cat, w := range weights {
			t.MaxScore[cat] += w
		}
	}

	slog.Debug("loaded markers", "genes", len(t.Weights), "categories", len(categories))
	return t, nil
}
