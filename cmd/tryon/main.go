// Command tryon runs one virtual fitting from image files on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fittingroom/internal/imagefile"
	"fittingroom/internal/infra"
	"fittingroom/internal/providers"
	"fittingroom/internal/storage"
)

func main() {
	var (
		modelPath  string
		topPath    string
		bottomPath string
		outPath    string
	)
	flag.StringVar(&modelPath, "model", "", "Path to the photo of the person")
	flag.StringVar(&topPath, "top", "", "Path to the top garment image")
	flag.StringVar(&bottomPath, "bottom", "", "Path to the bottom garment image")
	flag.StringVar(&outPath, "out", "fitting.png", "Where to write the generated image")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, [3]string{modelPath, topPath, bottomPath}, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "tryon: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, paths [3]string, outPath string) error {
	for i, name := range []string{"-model", "-top", "-bottom"} {
		if strings.TrimSpace(paths[i]) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "tryon").Logger()

	images, err := loadImages(ctx, paths)
	if err != nil {
		return err
	}

	generator, backend := providers.NewGenerator(cfg, logger)
	logger.Info().Str("backend", backend).Msg("generating fitting")

	ref, err := generator.Generate(ctx, images[0], images[1], images[2])
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	result, err := imagefile.FromDataURL(ref)
	if err != nil {
		return fmt.Errorf("unexpected result: %w", err)
	}
	dir, err := storage.NewDir(filepath.Dir(outPath))
	if err != nil {
		return err
	}
	written, err := dir.Save(ctx, filepath.Base(outPath), result)
	if err != nil {
		return err
	}
	logger.Info().Str("out", written).Str("mime", result.MIMEType()).Msg("fitting written")
	fmt.Println(written)
	return nil
}

func loadImages(ctx context.Context, paths [3]string) ([3]imagefile.ImageFile, error) {
	var images [3]imagefile.ImageFile
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			img, err := imagefile.Read(gctx, f, "")
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			images[i] = img
			return nil
		})
	}
	return images, g.Wait()
}
