package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fittingroom/internal/imagefile"
)

func TestDirSave(t *testing.T) {
	root := t.TempDir()
	d, err := NewDir(filepath.Join(root, "out"))
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	img := imagefile.New([]byte("jpeg bytes"), imagefile.TypeJPEG)

	tests := []struct {
		name string
		want string
	}{
		{name: "look", want: "look.jpg"},
		{name: "look.jpeg", want: "look.jpeg"},
		{name: "/nested/look", want: filepath.Join("nested", "look.jpg")},
		{name: "a/../b", want: "b.jpg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, err := d.Save(context.Background(), tc.name, img)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if want := filepath.Join(root, "out", tc.want); path != want {
				t.Fatalf("path = %q, want %q", path, want)
			}
			got, err := os.ReadFile(path)
			if err != nil || string(got) != "jpeg bytes" {
				t.Fatalf("read back %q, %v", got, err)
			}
		})
	}

	entries, _ := os.ReadDir(filepath.Join(root, "out"))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".fitting-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestDirSaveRejects(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	img := imagefile.New([]byte("x"), imagefile.TypePNG)

	for _, name := range []string{"", "..", "../escape.png", "  "} {
		if _, err := d.Save(context.Background(), name, img); err == nil {
			t.Fatalf("Save(%q) should fail", name)
		}
	}
	if _, err := d.Save(context.Background(), "empty", imagefile.ImageFile{}); !errors.Is(err, imagefile.ErrEmpty) {
		t.Fatalf("error = %v, want ErrEmpty", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Save(ctx, "late", img); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want Canceled", err)
	}
	if _, err := NewDir(" "); err == nil {
		t.Fatal("NewDir should require a root")
	}
}
