package main

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/urfave/cli/v2"

	"imgmask/codec"
	"imgmask/mask"
	"imgmask/preview"
)

const version = "1.0.0"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "imgmask"
	app.Usage = "mask images with a password and preview them in the terminal"
	app.Version = version
	app.Flags = globalFlags()

	app.Before = func(c *cli.Context) error {
		SetDebug(c.Bool("verbose"))
		return nil
	}

	// Errors are reported here and the exit status is left to main
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err != nil {
			Debug(err.Error(), ERROR)
		}
	}

	app.Commands = []*cli.Command{
		{
			Name:      "mask",
			Aliases:   []string{"unmask"},
			Usage:     "XOR an image with the stream keyed by a password",
			ArgsUsage: "IMAGE [PASSWORD] OUTPUT",
			Description: "Masking is its own inverse: masking the output again with the\n" +
				"same password restores the input, as long as OUTPUT is lossless.",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "preview",
					Usage: "show the result in the terminal after saving",
				},
			},
			Action: maskAction,
		},
		{
			Name:      "preview",
			Usage:     "show an image in the terminal, masked when a password is given",
			ArgsUsage: "IMAGE [PASSWORD]",
			Action:    previewAction,
		},
		{
			Name:      "render",
			Usage:     "write one frame of an image to standard output",
			ArgsUsage: "IMAGE [PASSWORD]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "cols",
					Usage: "columns to fit into (default: terminal width or 80)",
				},
				&cli.IntFlag{
					Name:  "rows",
					Usage: "rows to fit into (default: terminal height or 24)",
				},
				&cli.BoolFlag{
					Name:  "sixel",
					Usage: "write a sixel graphic instead of character cells",
				},
			},
			Action: renderAction,
		},
	}

	return app
}

func usageError(c *cli.Context, msg string) error {
	return cli.Exit(fmt.Sprintf("%s: %s", c.Command.FullName(), msg), 1)
}

// loadImage reads path and masks it when a password is given.
func loadImage(path, password string, masked bool) (*image.RGBA, error) {
	img, err := codec.Load(path)
	if err != nil {
		return nil, err
	}
	Debug(fmt.Sprintf("Loaded %s (%dx%d)", path, img.Rect.Dx(), img.Rect.Dy()), DEBUG)

	if masked {
		mask.Mask(img, password)
		Debug(fmt.Sprintf("Masked with seed %016x", mask.Seed(password)), DEBUG)
	}
	return img, nil
}

func maskAction(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	var input, output, password string
	switch c.NArg() {
	case 3:
		input, password, output = c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
	case 2:
		if !cfg.HasPassword {
			return cli.Exit(errNoPassword, 1)
		}
		input, password, output = c.Args().Get(0), cfg.Password, c.Args().Get(1)
	default:
		return usageError(c, "expected IMAGE [PASSWORD] OUTPUT")
	}

	if !codec.Supported(output) {
		return cli.Exit(fmt.Errorf("%s: %w", output, codec.ErrUnsupportedFormat), 1)
	}
	if !codec.Lossless(output) {
		Debug(fmt.Sprintf("%s is a lossy format, the masked image cannot be restored exactly", output), WARN)
	}

	img, err := loadImage(input, password, true)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := codec.Save(output, img); err != nil {
		return cli.Exit(err, 1)
	}
	Debug(fmt.Sprintf("Wrote %s", output), INFO)

	if c.Bool("preview") {
		if err := view(cfg, img); err != nil {
			return cli.Exit(err, 1)
		}
	}
	return nil
}

func previewAction(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.NArg() < 1 || c.NArg() > 2 {
		return usageError(c, "expected IMAGE [PASSWORD]")
	}

	password, masked := cfg.password(c, 1)
	img, err := loadImage(c.Args().First(), password, masked)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := view(cfg, img); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

// view runs the interactive viewer on img with the configured backend.
func view(cfg *Config, img *image.RGBA) (err error) {
	logger, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	t, err := cfg.terminal()
	if err != nil {
		return err
	}

	Debug(fmt.Sprintf("Starting %s viewer, press %q to quit", cfg.Backend, preview.QuitKey), DEBUG)
	logger.Printf("Backend %s, colours %s", cfg.Backend, cfg.Color)
	return preview.NewViewer(t, logger).Run(img)
}

func renderAction(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.NArg() < 1 || c.NArg() > 2 {
		return usageError(c, "expected IMAGE [PASSWORD]")
	}

	cols, rows := outputSize()
	if c.IsSet("cols") {
		cols = c.Int("cols")
	}
	if c.IsSet("rows") {
		rows = c.Int("rows")
	}
	if cols <= 0 || rows <= 0 {
		return usageError(c, "--cols and --rows must be positive")
	}

	password, masked := cfg.password(c, 1)
	img, err := loadImage(c.Args().First(), password, masked)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("sixel") {
		if err := preview.WriteSixel(c.App.Writer, img, cols, rows, preview.DefaultCellSize); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	frame := preview.Approximate(img, cols, rows)
	Debug(fmt.Sprintf("Rendering %dx%d cells into %dx%d", frame.Cols(), len(frame), cols, rows), DEBUG)
	if _, err := frame.WriteTo(c.App.Writer); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}
