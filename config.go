package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"imgmask/preview"
)

const (
	backendTcell = "tcell"
	backendANSI  = "ansi"

	defaultCols = 80
	defaultRows = 24
)

var errNoPassword = errors.New("no password given")

type Config struct {
	Verbose  bool
	LogFile  string
	Backend  string
	Color    preview.ColorMode
	Password string
	// HasPassword is set when the password came from --password or
	// IMGMASK_PASSWORD, an empty password is still a password.
	HasPassword bool
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"IMGMASK_VERBOSE"},
			Usage:   "print debug messages",
		},
		&cli.StringFlag{
			Name:    "log-file",
			EnvVars: []string{"IMGMASK_LOG_FILE"},
			Usage:   "write viewer logs to `FILE`",
		},
		&cli.StringFlag{
			Name:    "backend",
			EnvVars: []string{"IMGMASK_BACKEND"},
			Value:   backendTcell,
			Usage:   "terminal backend, tcell or ansi",
		},
		&cli.StringFlag{
			Name:    "color",
			EnvVars: []string{"IMGMASK_COLOR"},
			Value:   "truecolor",
			Usage:   "viewer colours, truecolor or 256",
		},
		&cli.StringFlag{
			Name:    "password",
			EnvVars: []string{"IMGMASK_PASSWORD"},
			Usage:   "password used when none is given as an argument",
		},
	}
}

func configFromContext(c *cli.Context) (*Config, error) {
	cfg := &Config{
		Verbose:     c.Bool("verbose"),
		LogFile:     c.String("log-file"),
		Backend:     c.String("backend"),
		Password:    c.String("password"),
		HasPassword: c.IsSet("password"),
	}

	mode, err := preview.ParseColorMode(c.String("color"))
	if err != nil {
		return nil, err
	}
	cfg.Color = mode

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Backend {
	case backendTcell, backendANSI:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}

// password returns the positional argument at i, falling back to the
// configured password.
func (cfg *Config) password(c *cli.Context, i int) (string, bool) {
	if c.NArg() > i {
		return c.Args().Get(i), true
	}
	return cfg.Password, cfg.HasPassword
}

func (cfg *Config) terminal() (preview.Terminal, error) {
	if cfg.Backend == backendANSI {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("standard input is not a terminal")
		}
		return preview.NewANSITerminal(os.Stdin, os.Stdout), nil
	}
	return preview.NewTcellTerminal(cfg.Color), nil
}

// outputSize is the size of the terminal on stdout, or 80x24 when stdout is
// not a terminal.
func outputSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if cols, rows, err := term.GetSize(fd); err == nil && cols > 0 && rows > 0 {
			return cols, rows
		}
	}
	return defaultCols, defaultRows
}
