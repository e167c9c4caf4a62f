package typer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/mchmarny/celltyper/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarkers() *data.MarkerTable {
	return &data.MarkerTable{
		Weights: map[string]map[string]float64{
			"G1": {"CatA": 0.5, "CatB": 0.0},
			"G2": {"CatA": 0.0, "CatB": 0.5},
		},
		MaxScore:   map[string]float64{"CatA": 0.5, "CatB": 0.5},
		Categories: []string{"CatA", "CatB"},
	}
}

func TestPredict(t *testing.T) {
	// G1 present, G2 absent: CatA collects its full 0.5 (from G1 plus G2's
	// zero weight), CatB collects nothing because G2's call misses its 0.5.
	expr := testMatrix(map[string]map[string]float64{
		"S1": {"G1": 1, "G2": 0},
	}, "S1")

	pred, err := NewPredictor(nil).Predict(expr, testMarkers())
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, pred.Samples)
	assert.Equal(t, []string{"CatA", "CatB"}, pred.Categories)
	assert.Equal(t, 1.0, pred.Scores["S1"]["CatA"])
	assert.Equal(t, 0.0, pred.Scores["S1"]["CatB"])
}

func TestPredict_EndToEnd(t *testing.T) {
	// The worked example: raw 10 and 1 with a cutoff of 5.
	raw := testMatrix(map[string]map[string]float64{
		"S1": {"G1": 10, "G2": 1},
	}, "S1")

	calls, err := NewNormalizer(false, false, 5, nil).Normalize(raw)
	require.NoError(t, err)

	pred, err := NewPredictor(nil).Predict(calls, testMarkers())
	require.NoError(t, err)

	assert.Equal(t, 1.0, pred.Scores["S1"]["CatA"])
	assert.Equal(t, 0.0, pred.Scores["S1"]["CatB"])
}

func TestPredict_Boundedness(t *testing.T) {
	markers := &data.MarkerTable{
		Weights: map[string]map[string]float64{
			"G1": {"C1": 0.2, "C2": 1.0},
			"G2": {"C1": 0.8, "C2": 0.5},
			"G3": {"C1": 0.0, "C2": 0.25},
		},
		MaxScore:   map[string]float64{"C1": 1.0, "C2": 1.75},
		Categories: []string{"C1", "C2"},
	}

	expr := testMatrix(map[string]map[string]float64{
		"S1": {"G1": 1, "G2": 1, "G3": 1},
		"S2": {"G1": 0, "G2": 1, "G3": 0},
		"S3": {"G1": 1, "G2": 0, "G3": 0, "GX": 1},
	}, "S1", "S2", "S3")

	pred, err := NewPredictor(nil).Predict(expr, markers)
	require.NoError(t, err)

	for sample, scores := range pred.Scores {
		for cat, s := range scores {
			assert.GreaterOrEqual(t, s, 0.0, "sample %s category %s", sample, cat)
			assert.LessOrEqual(t, s, 1.0, "sample %s category %s", sample, cat)
		}
	}

	// A sample expressing every marker reaches the max score everywhere.
	assert.Equal(t, 1.0, pred.Scores["S1"]["C1"])
	assert.Equal(t, 1.0, pred.Scores["S1"]["C2"])
}

func TestPredict_UnknownGenesIgnored(t *testing.T) {
	expr := testMatrix(map[string]map[string]float64{
		"S1": {"G1": 1, "G2": 1, "GX": 1, "GY": 1},
	}, "S1")

	pred, err := NewPredictor(nil).Predict(expr, testMarkers())
	require.NoError(t, err)

	assert.Equal(t, 1.0, pred.Scores["S1"]["CatA"])
	assert.Equal(t, 1.0, pred.Scores["S1"]["CatB"])
}

func TestPredict_NoMarkersMatched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	expr := testMatrix(map[string]map[string]float64{
		"S1": {"GX": 1, "GY": 0},
	}, "S1")

	pred, err := NewPredictor(logger).Predict(expr, testMarkers())
	require.NoError(t, err)

	assert.Equal(t, 0.0, pred.Scores["S1"]["CatA"])
	assert.Equal(t, 0.0, pred.Scores["S1"]["CatB"])
	assert.Contains(t, buf.String(), "S1")
	assert.Contains(t, buf.String(), "WARN")
}

func TestPredict_ZeroMaxScore(t *testing.T) {
	markers := &data.MarkerTable{
		Weights: map[string]map[string]float64{
			"G1": {"CatA": 0.5, "CatB": 0.0},
		},
		MaxScore:   map[string]float64{"CatA": 0.5, "CatB": 0.0},
		Categories: []string{"CatA", "CatB"},
	}
	expr := testMatrix(map[string]map[string]float64{
		"S1": {"G1": 1},
	}, "S1")

	_, err := NewPredictor(nil).Predict(expr, markers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CatB")
	assert.Contains(t, err.Error(), "S1")
}

func TestPredict_SampleOrderPreserved(t *testing.T) {
	expr := testMatrix(map[string]map[string]float64{
		"S3": {"G1": 1},
		"S1": {"G1": 1},
		"S2": {"G1": 1},
	}, "S3", "S1", "S2")

	pred, err := NewPredictor(nil).Predict(expr, testMarkers())
	require.NoError(t, err)
	assert.Equal(t, []string{"S3", "S1", "S2"}, pred.Samples)
}
