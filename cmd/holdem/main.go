package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-engine/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Debug   bool     `help:"Enable debug logging"`
	Config  string   `short:"c" type:"path" default:"holdem.hcl" help:"HCL table configuration (defaults are used when missing)"`
	EnvFile []string `name:"env-file" default:".env" help:"Dotenv files loaded before reading HOLDEM_* overrides"`
	NoColor bool     `name:"no-color" help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only tables and report per-seat results"`
	Play     PlayCmd          `cmd:"" help:"Play hands at the terminal against the configured bots"`
	Eval     EvalCmd          `cmd:"" help:"Rank hole cards against a board"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Single-table Texas Hold'em engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// logger returns the process logger, writing to stderr.
func (g *Globals) logger() *log.Logger {
	level := log.InfoLevel
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// loadConfig reads the configuration file and applies environment
// overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(g.EnvFile...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
