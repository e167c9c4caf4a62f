package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Prediction holds the final per-sample category scores. Samples and
// Categories carry the output row and column order.
type Prediction struct {
	Scores     map[string]map[string]float64
	Samples    []string
	Categories []string
}

// WritePredictions serializes the prediction to a delimited file with a
// `Sample` header column followed by one column per category. Rows follow
// the expression file's sample order.
func WritePredictions(path string, delim rune, p *Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = delim

	header := append([]string{"Sample"}, p.Categories...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing output header: %w", err)
	}

	for _, sample := range p.Samples {
		row := make([]string, 0, len(p.Categories)+1)
		row = append(row, sample)
		for _, cat := range p.Categories {
			row = append(row, strconv.FormatFloat(p.Scores[sample][cat], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing output row for sample %s: %w", sample, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing output file: %w", err)
	}
	return nil
}
