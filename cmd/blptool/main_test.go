package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/blp"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
}

func TestEncodeInfoConvertSplat(t *testing.T) {
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, img)

	out := filepath.Join(dir, "out.blp")
	if err := run([]string{"encode", "-format", "bgra", "-mips", "1", src, out}, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var info bytes.Buffer
	if err := run([]string{"info", out}, &info); err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(info.String(), "16x16") || !strings.Contains(info.String(), "compression: raw") {
		t.Fatalf("unexpected info output:\n%s", info.String())
	}

	bmpPath := filepath.Join(dir, "out.bmp")
	if err := run([]string{"convert", out, bmpPath}, nil); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if st, err := os.Stat(bmpPath); err != nil || st.Size() == 0 {
		t.Fatalf("convert produced no output: %v", err)
	}

	mask := bytes.Repeat([]byte{0x40}, blp.AlphaMapSize*blp.AlphaMapSize)
	maskPath := filepath.Join(dir, "mask.raw")
	if err := os.WriteFile(maskPath, mask, 0o644); err != nil {
		t.Fatalf("write mask: %v", err)
	}

	splatPath := filepath.Join(dir, "splat.png")
	if err := run([]string{"splat", "-mask", maskPath, out, splatPath}, nil); err != nil {
		t.Fatalf("splat: %v", err)
	}

	f, err := os.Open(splatPath)
	if err != nil {
		t.Fatalf("open splat: %v", err)
	}
	defer func() { _ = f.Close() }()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	c := color.NRGBAModel.Convert(got.At(5, 5)).(color.NRGBA)
	if c.A != 0x40 || c.R != 10 || c.G != 20 || c.B != 30 {
		t.Fatalf("splat pixel = %+v", c)
	}
}

func TestRunUsage(t *testing.T) {
	if err := run(nil, nil); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if err := run([]string{"bogus"}, nil); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if _, err := parseFormat("bc7"); !errors.Is(err, blp.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}
