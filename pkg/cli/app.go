package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mchmarny/celltyper/pkg/config"
	"github.com/mchmarny/celltyper/pkg/logging"
	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	name         = "celltyper"
	appConfigKey = "app-config"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = config.FormatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Run summary output format [json, yaml]",
		Value: config.FormatJSON,
	}

	configDirFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: fmt.Sprintf("Path to the config profile directory (optional, defaults to $HOME/.%s)", name),
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	ConfigDir string
	Debug     bool
	Profile   *config.Config
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 name,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for scoring expression samples against marker gene signatures",
		Flags: []urfave.Flag{
			debugFlag,
			formatFlag,
			configDirFlag,
		},
		Commands: []*urfave.Command{
			predictCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				initLogging(true)
			}

			dir := c.String(configDirFlag.Name)
			if dir == "" {
				var err error
				dir, _, err = config.GetOrCreateHomeDir(name)
				if err != nil {
					return fmt.Errorf("resolving config dir: %w", err)
				}
			}

			profile, err := config.ReadOrCreate(dir)
			if err != nil {
				return fmt.Errorf("loading config profile: %w", err)
			}

			f := profile.Format
			if c.IsSet(formatFlag.Name) {
				f = c.String(formatFlag.Name)
			}
			if f == config.FormatYAML || f == "yml" {
				outputFormat = config.FormatYAML
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				ConfigDir: dir,
				Debug:     c.Bool(debugFlag.Name),
				Profile:   profile,
			}
			return nil
		},
	}
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

func encode(v any) error {
	if outputFormat == config.FormatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
