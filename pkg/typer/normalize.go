// Package typer implements the scoring engine: expression binarization and
// marker-based category prediction.
package typer

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/celltyper/pkg/data"
)

const cpmScale = 1_000_000

// Normalizer converts raw expression values into binary presence calls.
// Exactly one binarization policy applies per run: when AverageFilter is set,
// each sample is thresholded at its own mean; otherwise MinExpression is the
// cutoff. CPM rescaling, when enabled, runs once before either policy.
type Normalizer struct {
	CPM           bool
	AverageFilter bool
	MinExpression float64

	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger falls back to the default.
func NewNormalizer(cpm, averageFilter bool, minExpression float64, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		CPM:           cpm,
		AverageFilter: averageFilter,
		MinExpression: minExpression,
		logger:        logger,
	}
}

// Normalize returns a new matrix in which every value is 0 or 1. The input
// matrix is not modified.
func (n *Normalizer) Normalize(m *data.ExpressionMatrix) (*data.ExpressionMatrix, error) {
	if n.CPM {
		var err error
		if m, err = n.cpm(m); err != nil {
			return nil, err
		}
	}
	return n.binarize(m), nil
}

// cpm rescales each sample so its values sum to one million.
func (n *Normalizer) cpm(m *data.ExpressionMatrix) (*data.ExpressionMatrix, error) {
	n.logger.Debug("normalizing expression data to CPM")

	out := &data.ExpressionMatrix{
		Values:  make(map[string]map[string]float64, len(m.Values)),
		Samples: m.Samples,
	}
	for sample, genes := range m.Values {
		var total float64
		for _, v := range genes {
			total += v
		}
		if total == 0 {
			return nil, fmt.Errorf("sample %s has zero total expression, cannot rescale to CPM", sample)
		}
		scaled := make(map[string]float64, len(genes))
		for gene, v := range genes {
			scaled[gene] = v / total * cpmScale
		}
		out.Values[sample] = scaled
	}
	return out, nil
}

func (n *Normalizer) binarize(m *data.ExpressionMatrix) *data.ExpressionMatrix {
	out := &data.ExpressionMatrix{
		Values:  make(map[string]map[string]float64, len(m.Values)),
		Samples: m.Samples,
	}

	for sample, genes := range m.Values {
		cutoff := n.MinExpression
		if n.AverageFilter {
			var total float64
			for _, v := range genes {
				total += v
			}
			cutoff = total / float64(len(genes))
		}

		calls := make(map[string]float64, len(genes))
		for gene, v := range genes {
			if v < cutoff {
				calls[gene] = 0
			} else {
				calls[gene] = 1
			}
		}
		out.Values[sample] = calls
	}

	if n.AverageFilter {
		n.logger.Debug("binarized expression by per-sample average")
	} else {
		n.logger.Debug("binarized expression by minimum value", "min", n.MinExpression)
	}
	return out
}
