package data

import (
	"log/slog"
)

// ExpressionMatrix holds per-sample gene expression values. Values maps
// sample name to gene ID to measured value; Samples preserves the expression
// file's column order for output.
type ExpressionMatrix struct {
	Values  map[string]map[string]float64
	Samples []string
}

// LoadExpressions reads the expression file. The first column is the gene ID
// and the header row (minus its first cell) names the samples.
func LoadExpressions(path string, delim rune) (*ExpressionMatrix, error) {
	slog.Debug("reading expressions file", "path", path)

	header, rows, err := readTable(path, delim)
	if err != nil {
		return nil, err
	}
	samples := header[1:]

	m := &ExpressionMatrix{
		Values:  make(map[string]map[string]float64, len(samples)),
		Samples: samples,
	}
	for _, s := range samples {
		m.Values[s] = make(map[string]float64, len(rows))
	}

	for _, row := range rows {
		gene := row[0]
		for i, s := range samples {
			v, err := parseCell(path, gene, row[i+1])
			if err != nil {
				return nil, err
			}
			m.Values[s][gene] = v
		}
	}

	slog.Debug("loaded expressions", "samples", len(samples), "genes", len(rows))
	return m, nil
}
