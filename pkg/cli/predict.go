package cli

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/mchmarny/celltyper/pkg/data"
	"github.com/mchmarny/celltyper/pkg/typer"
	"github.com/urfave/cli/v2"
)

var (
	inputFileFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Path to the expression file (genes by samples)",
		Required: true,
	}

	markersFileFlag = &cli.StringFlag{
		Name:     "markers",
		Aliases:  []string{"g"},
		Usage:    "Path to the gene markers file (genes by categories)",
		Required: true,
	}

	outputFileFlag = &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "Path to the output score file",
		Required: true,
	}

	delimiterFlag = &cli.StringFlag{
		Name:    "delimiter",
		Aliases: []string{"d"},
		Usage:   `Field delimiter, a single character (default: tab, "\t" is accepted)`,
	}

	minExpressionFlag = &cli.Float64Flag{
		Name:    "min-expression",
		Aliases: []string{"m"},
		Usage:   "Minimum expression value, genes below it are called absent (default: 0)",
	}

	averageFilterFlag = &cli.BoolFlag{
		Name:    "average-filter",
		Aliases: []string{"a"},
		Usage:   "Call genes present/absent against each sample's average expression instead of the minimum value",
	}

	cpmFlag = &cli.BoolFlag{
		Name:    "cpm",
		Aliases: []string{"n"},
		Usage:   "Rescale each sample to counts per million before calling genes",
	}

	predictCmd = &cli.Command{
		Name:    "predict",
		Aliases: []string{"p"},
		Usage:   "Score each sample against the marker gene categories",
		UsageText: `celltyper predict -i expr.tsv -g markers.tsv -o scores.tsv            # default: min expression 0
   celltyper predict -i expr.tsv -g markers.tsv -o scores.tsv -m 5       # minimum expression cutoff
   celltyper predict -i expr.tsv -g markers.tsv -o scores.tsv -n -a      # CPM rescale, average filter`,
		Action: cmdPredict,
		Flags: []cli.Flag{
			inputFileFlag,
			markersFileFlag,
			outputFileFlag,
			delimiterFlag,
			minExpressionFlag,
			averageFilterFlag,
			cpmFlag,
		},
	}
)

// PredictResult is the run summary encoded to stdout after a successful run.
type PredictResult struct {
	Input      string   `json:"input" yaml:"input"`
	Markers    int      `json:"markers" yaml:"markers"`
	Categories []string `json:"categories" yaml:"categories"`
	Samples    int      `json:"samples" yaml:"samples"`
	Output     string   `json:"output" yaml:"output"`
	Duration   string   `json:"duration" yaml:"duration"`
}

func cmdPredict(c *cli.Context) error {
	cfg := getConfig(c)
	start := time.Now()

	delim, err := resolveDelimiter(c, cfg)
	if err != nil {
		return err
	}

	minExpression := cfg.Profile.MinExpression
	if c.IsSet(minExpressionFlag.Name) {
		minExpression = c.Float64(minExpressionFlag.Name)
	}
	averageFilter := cfg.Profile.AverageFilter || c.Bool(averageFilterFlag.Name)
	cpm := cfg.Profile.CPM || c.Bool(cpmFlag.Name)

	markers, err := data.LoadMarkers(c.String(markersFileFlag.Name), delim)
	if err != nil {
		return fmt.Errorf("loading markers: %w", err)
	}

	expr, err := data.LoadExpressions(c.String(inputFileFlag.Name), delim)
	if err != nil {
		return fmt.Errorf("loading expressions: %w", err)
	}

	normalizer := typer.NewNormalizer(cpm, averageFilter, minExpression, slog.Default())
	calls, err := normalizer.Normalize(expr)
	if err != nil {
		return fmt.Errorf("normalizing expressions: %w", err)
	}

	predictor := typer.NewPredictor(slog.Default())
	pred, err := predictor.Predict(calls, markers)
	if err != nil {
		return fmt.Errorf("predicting: %w", err)
	}

	out := c.String(outputFileFlag.Name)
	slog.Debug("writing predictions", "path", out)
	if err := data.WritePredictions(out, delim, pred); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}

	return encode(&PredictResult{
		Input:      c.String(inputFileFlag.Name),
		Markers:    len(markers.Weights),
		Categories: markers.Categories,
		Samples:    len(expr.Samples),
		Output:     out,
		Duration:   time.Since(start).String(),
	})
}

// resolveDelimiter picks the flag value over the profile value and validates
// that the result is a single character. The two-character literal `\t` is
// accepted as a tab for shell convenience.
func resolveDelimiter(c *cli.Context, cfg *appConfig) (rune, error) {
	s := cfg.Profile.Delimiter
	if c.IsSet(delimiterFlag.Name) {
		s = c.String(delimiterFlag.Name)
	}
	if s == "" {
		return data.DelimiterDefault, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
