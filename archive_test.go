package blp

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestNormalizeNameTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "backslashes", in: `Tileset\Elwynn\ElwynnGrass01.blp`, want: "tileset/elwynn/elwynngrass01.blp"},
		{name: "leading-slash", in: "/World/Minimaps/a.blp", want: "world/minimaps/a.blp"},
		{name: "dot-segments", in: `tileset\.\a.blp`, want: "tileset/a.blp"},
		{name: "empty", in: "", wantErr: ErrInvalidName},
		{name: "escape", in: `..\secret.blp`, wantErr: ErrInvalidName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeName(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeName(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFSArchive(t *testing.T) {
	t.Parallel()

	a := FSArchive{FS: fstest.MapFS{
		"tileset/grass.blp": {Data: []byte("data")},
	}}

	rc, err := a.Open(`Tileset\Grass.BLP`)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil || string(data) != "data" {
		t.Fatalf("read = %q, %v", data, err)
	}

	if _, err := a.Open("tileset/missing.blp"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDirArchiveCaseInsensitive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "TILESET", "Elwynn"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "TILESET", "Elwynn", "Grass.blp"), []byte("grass"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a := NewDirArchive(root)
	rc, err := a.Open(`tileset\elwynn\GRASS.blp`)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "grass" {
		t.Fatalf("read %q", data)
	}

	if err := os.WriteFile(filepath.Join(root, "late.blp"), []byte("late"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := a.Open("late.blp"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound before Reindex, got %v", err)
	}

	a.Reindex()
	rc, err = a.Open("LATE.BLP")
	if err != nil {
		t.Fatalf("Open after Reindex: %v", err)
	}
	_ = rc.Close()
}

func TestDirArchiveMissingRoot(t *testing.T) {
	t.Parallel()

	a := NewDirArchive(filepath.Join(t.TempDir(), "nope"))
	if _, err := a.Open("a.blp"); !errors.Is(err, ErrOpenFile) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}
