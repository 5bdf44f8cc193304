package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fittingroom/internal/imagefile"
)

var extensions = map[string]string{
	imagefile.TypePNG:  ".png",
	imagefile.TypeJPEG: ".jpg",
	imagefile.TypeWEBP: ".webp",
}

// Dir saves generated fittings under a root directory on the local filesystem.
type Dir struct {
	root string
}

// NewDir creates root if needed and returns a Dir writing into it.
func NewDir(root string) (*Dir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure root: %w", err)
	}
	return &Dir{root: root}, nil
}

// Save writes img under name and returns the final path. A name without an
// extension gets one matching the image type. The file is written to a
// temporary sibling first and renamed, so readers never see a partial image.
func (d *Dir) Save(ctx context.Context, name string, img imagefile.ImageFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img.IsZero() {
		return "", imagefile.ErrEmpty
	}
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	if filepath.Ext(clean) == "" {
		clean += extensions[img.MIMEType()]
	}
	data, err := img.Bytes()
	if err != nil {
		return "", fmt.Errorf("storage: decode payload: %w", err)
	}

	full := filepath.Join(d.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".fitting-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("storage: rename: %w", err)
	}
	return full, nil
}

// sanitizeName keeps name inside the root directory.
func sanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", errors.New("storage: name is required")
	}
	cleaned := filepath.ToSlash(filepath.Clean(name))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("storage: invalid name %q", name)
	}
	return cleaned, nil
}
