package typer

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/celltyper/pkg/data"
)

// Predictor scores binarized expression data against a marker table.
type Predictor struct {
	logger *slog.Logger
}

// NewPredictor creates a Predictor. A nil logger falls back to the default.
func NewPredictor(logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{logger: logger}
}

// Predict accumulates marker weights for every gene whose binary call meets
// the gene's weight for a category, then normalizes each category's total by
// its maximum achievable score. Scores are in [0, 1] for non-negative
// weights. A sample with no genes in the marker table scores 0 everywhere
// and is reported as a warning.
func (p *Predictor) Predict(expr *data.ExpressionMatrix, markers *data.MarkerTable) (*data.Prediction, error) {
	p.logger.Debug("making predictions", "samples", len(expr.Samples))

	pred := &data.Prediction{
		Scores:     make(map[string]map[string]float64, len(expr.Samples)),
		Samples:    expr.Samples,
		Categories: markers.Categories,
	}

	for _, sample := range expr.Samples {
		scores := make(map[string]float64, len(markers.Categories))
		for _, cat := range markers.Categories {
			scores[cat] = 0
		}

		matched := 0
		for gene, call := range expr.Values[sample] {
			weights, ok := markers.Weights[gene]
			if !ok {
				continue
			}
			matched++
			for _, cat := range markers.Categories {
				if w := weights[cat]; call >= w {
					scores[cat] += w
				}
			}
		}

		if matched == 0 {
			p.logger.Warn("no marker genes found in sample", "sample", sample)
			pred.Scores[sample] = scores
			continue
		}

		for _, cat := range markers.Categories {
			if markers.MaxScore[cat] == 0 {
				return nil, fmt.Errorf("category %s has zero max score, score for sample %s is undefined", cat, sample)
			}
			scores[cat] /= markers.MaxScore[cat]
		}
		pred.Scores[sample] = scores
	}

	return pred, nil
}
