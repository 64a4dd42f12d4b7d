package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/lotharsm/scummvm"
	"github.com/lotharsm/scummvm/graphics"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func formatByName(name string) (graphics.PixelFormat, error) {
	switch strings.ToLower(name) {
	case "rgba32":
		return graphics.PixelFormatRGBA32, nil
	case "bgra32":
		return graphics.PixelFormatBGRA32, nil
	case "rgb24":
		return graphics.PixelFormatRGB24, nil
	case "rgb565":
		return graphics.PixelFormatRGB565, nil
	case "rgb555":
		return graphics.PixelFormatRGB555, nil
	case "clut8":
		return graphics.PixelFormatCLUT8, nil
	}
	return graphics.PixelFormat{}, fmt.Errorf("unknown pixel format %q", name)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Encode(f, img)
	}
	return png.Encode(f, img)
}

func parseColorKey(s string, format graphics.PixelFormat) (uint32, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return 0, false, fmt.Errorf("invalid color key %q", s)
	}
	r := uint8(v >> 16)
	g := uint8(v >> 8)
	b := uint8(v)
	return format.RGBToColor(r, g, b), true, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func convertAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	format, err := formatByName(c.String("format"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	img, err := loadImage(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var surf *graphics.Surface
	if format.IsCLUT8() {
		surf = graphics.FromImageIndexed(img, c.Int("colors"), c.Bool("dither"))
	} else {
		surf = graphics.FromImage(img, format)
	}

	if err := writeImage(c.Args().Get(1), surf.ToImage()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scaleAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	img, err := loadImage(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	width, height := c.Int("width"), c.Int("height")
	if width <= 0 || height <= 0 {
		return cli.NewExitError("width and height must be positive", 1)
	}

	var out image.Image
	switch c.String("filter") {
	case "catmullrom":
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		out = dst
	case "bilinear", "nearest":
		surf := graphics.FromImage(img, graphics.PixelFormatRGBA32)
		out = surf.Scale(width, height, c.String("filter") == "bilinear").ToImage()
	default:
		return cli.NewExitError(fmt.Errorf("unknown filter %q", c.String("filter")), 1)
	}

	if err := writeImage(c.Args().Get(1), out); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func compositeAction(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	baseImg, err := loadImage(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	overImg, err := loadImage(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	base := graphics.FromImage(baseImg, graphics.PixelFormatRGBA32)
	over := graphics.FromImage(overImg, graphics.PixelFormatRGBA32)

	key, keySet, err := parseColorKey(c.String("key"), graphics.PixelFormatRGBA32)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	transColor := graphics.TransparentColorNone
	if keySet {
		transColor = key
	}

	pos := image.Pt(c.Int("x"), c.Int("y"))
	destRect := over.Bounds().Add(pos)
	base.TransBlitRectFrom(over, over.Bounds(), destRect, transColor, false, uint8(c.Int("alpha")))

	if err := writeImage(c.Args().Get(2), base.ToImage()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func batchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	format, err := formatByName(c.String("format"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	conv := scummvm.New(scummvm.Options{
		Format:      format,
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		Filter:      c.String("filter") == "bilinear",
		PaletteSize: c.Int("colors"),
		Dither:      c.Bool("dither"),
		OutDir:      c.String("out-dir"),
	}, newLogger(c))

	if err := conv.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "gfxtool"
	app.Usage = "Game graphics conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	formatFlag := &cli.StringFlag{
		Name:    "format",
		EnvVars: []string{"GFXTOOL_FORMAT"},
		Value:   "rgba32",
		Usage:   "target pixel format (rgba32, bgra32, rgb24, rgb565, rgb555, clut8)",
	}
	colorsFlag := &cli.IntFlag{
		Name:  "colors",
		Value: 256,
		Usage: "palette size for clut8 output",
	}
	ditherFlag := &cli.BoolFlag{
		Name:  "dither",
		Usage: "Floyd-Steinberg dithering for clut8 output",
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert an image to another pixel format",
			ArgsUsage: "IN OUT",
			Flags:     []cli.Flag{formatFlag, colorsFlag, ditherFlag},
			Action:    convertAction,
		},
		{
			Name:      "scale",
			Usage:     "Resample an image",
			ArgsUsage: "IN OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "width", Usage: "target width"},
				&cli.IntFlag{Name: "height", Usage: "target height"},
				&cli.StringFlag{
					Name:  "filter",
					Value: "nearest",
					Usage: "resampling filter (nearest, bilinear, catmullrom)",
				},
			},
			Action: scaleAction,
		},
		{
			Name:      "composite",
			Usage:     "Blend one image over another",
			ArgsUsage: "BASE OVERLAY OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "x", Usage: "overlay x offset"},
				&cli.IntFlag{Name: "y", Usage: "overlay y offset"},
				&cli.IntFlag{Name: "alpha", Value: 255, Usage: "global overlay alpha (0-255)"},
				&cli.StringFlag{Name: "key", Usage: "overlay color key as RRGGBB hex"},
			},
			Action: compositeAction,
		},
		{
			Name:      "batch",
			Usage:     "Convert every image under a directory",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				formatFlag, colorsFlag, ditherFlag,
				&cli.IntFlag{Name: "width", Usage: "target width (0 keeps original)"},
				&cli.IntFlag{Name: "height", Usage: "target height (0 keeps original)"},
				&cli.StringFlag{
					Name:  "filter",
					Value: "nearest",
					Usage: "resampling filter (nearest, bilinear)",
				},
				&cli.StringFlag{
					Name:    "out-dir",
					EnvVars: []string{"GFXTOOL_OUT_DIR"},
					Usage:   "write converted files into this directory",
				},
			},
			Action: batchAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
