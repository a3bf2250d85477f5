package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "symbol `PREFIX` for the emitted arrays, default derived from the file name",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   formatGo,
			Usage:   "output format: go, c or bin",
			EnvVars: []string{"CABI_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write to `FILE` instead of stdout",
		},
		&cli.StringFlag{
			Name:    "package",
			Value:   "assets",
			Usage:   "package clause for go output",
			EnvVars: []string{"CABI_PACKAGE"},
		},
		&cli.IntFlag{
			Name:  "threshold",
			Value: defaultThreshold,
			Usage: "gray `CUTOFF` 0-255 above which an opaque pixel is lit",
		},
		&cli.BoolFlag{
			Name:  "dither",
			Usage: "Floyd-Steinberg dither to black and white before encoding",
		},
		&cli.BoolFlag{
			Name:  "quantize",
			Usage: "split on the two dominant colors instead of a fixed cutoff",
		},
		&cli.BoolFlag{
			Name:  "fit",
			Usage: "scale down to fit the 128x64 display",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "cabi"
	app.Usage = "convert images to Arduboy compressed bitmaps and sprite sheets"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "compress an image into color and mask streams",
			ArgsUsage: "FILE",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					cli.ShowCommandHelpAndExit(c, "encode", 1)
				}

				cv := newConverter(c)
				a, err := cv.encodeFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeOutput(c, []asset{a}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "pack",
			Usage:     "pack an image or film strip into a sprite resource",
			ArgsUsage: "FILE",
			Flags: append(convertFlags(),
				&cli.IntFlag{
					Name:  "frame-height",
					Usage: "slice a vertical strip into frames `ROWS` tall",
				},
				&cli.BoolFlag{
					Name:  "plusmask",
					Usage: "interleave the mask for the plus mask drawing mode",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					cli.ShowCommandHelpAndExit(c, "pack", 1)
				}

				cv := newConverter(c)
				a, err := cv.packFile(c.Args().First(), c.Int("frame-height"), c.Bool("plusmask"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeOutput(c, []asset{a}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "decode a compressed stream back into a PNG",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the image to `FILE`",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					cli.ShowCommandHelpAndExit(c, "decode", 1)
				}

				logger := newLogger(c)
				if err := decodeFile(c.Args().First(), c.String("output"), logger); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "compress every image under a directory into one listing",
			ArgsUsage: "DIRECTORY",
			Flags: append(convertFlags(),
				&cli.IntFlag{
					Name:  "jobs",
					Value: 10,
					Usage: "number of images converted in parallel",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					cli.ShowCommandHelpAndExit(c, "batch", 1)
				}

				cv := newConverter(c)
				cv.name = "" // batch always derives names from the file names

				b := &batcher{
					converter: cv,
					jobs:      c.Int("jobs"),
				}
				assets, err := b.run(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeOutput(c, assets); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
