package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable marks a source that will never render, so retrying is pointless.
var ErrUndecodable = errors.New("image cannot be decoded")

type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = 320
	}
	return &Generator{size: size}
}

// Generate fits src into a size x size box and writes it as JPEG to dst.
func (g *Generator) Generate(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return fmt.Errorf("%w: %s", ErrUndecodable, filepath.Base(src))
		}
		if _, statErr := os.Stat(src); statErr == nil {
			// the file is there but could not be parsed
			return fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return fmt.Errorf("open %s: %w", src, err)
	}

	thumb := imaging.Fit(img, g.size, g.size, imaging.Lanczos)

	tmp := dst + ".tmp"
	if err := writeJPEG(tmp, thumb); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save thumbnail: %w", err)
	}
	return os.Rename(tmp, dst)
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
