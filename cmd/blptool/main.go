// Command blptool inspects, converts and splats BLP2 textures.
//
//	blptool info <file.blp>
//	blptool convert <in.blp> <out.png|bmp|tif>
//	blptool splat -mask <mask.raw> [-filter nearest|bilinear|cubic] <in.blp> <out.png>
//	blptool encode [-format dxt1|dxt3|dxt5|bgra] [-mips n] <in.png> <out.blp>
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/woozymasta/blp"
)

var errUsage = errors.New("usage: blptool info|convert|splat|encode ...")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Error("blptool failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], stdout)
	case "convert":
		return runConvert(args[1:])
	case "splat":
		return runSplat(args[1:])
	case "encode":
		return runEncode(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runInfo(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	h, err := blp.DecodeHeader(f)
	if err != nil {
		return err
	}

	format, ferr := h.Format()
	fmt.Fprintf(stdout, "size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(stdout, "type:        %d\n", h.Type)
	fmt.Fprintf(stdout, "compression: %s\n", h.Compression)
	fmt.Fprintf(stdout, "alpha:       depth %d, type %d\n", h.AlphaDepth, h.AlphaType)
	fmt.Fprintf(stdout, "mipmaps:     %d\n", h.MipMapCount())
	if ferr != nil {
		fmt.Fprintf(stdout, "format:      %v\n", ferr)
	} else if format != bcn.FormatUnknown {
		fmt.Fprintf(stdout, "format:      %v\n", format)
	}

	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	mip := fs.Int("mip", 0, "mip level to export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	img, err := blp.ReadWithOptions(fs.Arg(0), &blp.ReadOptions{MipLevel: *mip})
	if err != nil {
		return err
	}

	return saveImage(img, fs.Arg(1))
}

func runSplat(args []string) error {
	fs := flag.NewFlagSet("splat", flag.ContinueOnError)
	maskPath := fs.String("mask", "", "raw 64x64 8-bit coverage mask")
	filterName := fs.String("filter", "nearest", "mask filter: nearest, bilinear or cubic")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 || *maskPath == "" {
		return errUsage
	}

	filter, err := blp.ParseAlphaFilter(*filterName)
	if err != nil {
		return err
	}

	mask, err := os.ReadFile(*maskPath)
	if err != nil {
		return err
	}
	if len(mask) != blp.AlphaMapSize*blp.AlphaMapSize {
		return fmt.Errorf("mask %q: expected %d bytes, got %d", *maskPath, blp.AlphaMapSize*blp.AlphaMapSize, len(mask))
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tex, err := blp.DecodeTexture(filepath.Base(fs.Arg(0)), in, nil)
	if err != nil {
		return err
	}

	splat, err := tex.ApplyAlphaFiltered(mask, filter)
	if err != nil {
		return err
	}

	return saveImage(splat.Image(), fs.Arg(1))
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	formatName := fs.String("format", "dxt5", "output format: dxt1, dxt3, dxt5 or bgra")
	mips := fs.Int("mips", 0, "maximum mip levels, 0 for a full chain")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	format, err := parseFormat(*formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %q: %w", fs.Arg(0), err)
	}

	return blp.WriteWithOptions(img, fs.Arg(1), &blp.WriteOptions{
		Format:     format,
		MaxMipMaps: *mips,
	})
}

func parseFormat(name string) (bcn.Format, error) {
	switch strings.ToLower(name) {
	case "dxt1":
		return bcn.FormatDXT1, nil
	case "dxt3":
		return bcn.FormatDXT3, nil
	case "dxt5":
		return bcn.FormatDXT5, nil
	case "bgra", "raw":
		return bcn.FormatBGRA8, nil
	default:
		return bcn.FormatUnknown, fmt.Errorf("%w: %q", blp.ErrInvalidFormat, name)
	}
}

// saveImage writes img in the format implied by the file extension.
func saveImage(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	case ".bmp":
		return bmp.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, nil)
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}
