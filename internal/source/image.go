package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes an image file into an NRGBA frame, honouring EXIF orientation.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}

// Slideshow cycles through a fixed list of images.
type Slideshow struct {
	images []Image
	next   int
}

// NewSlideshow scans dir for images. It fails when there are none.
func NewSlideshow(dir string) (*Slideshow, error) {
	images, err := Scan(dir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	return &Slideshow{images: images}, nil
}

// Len returns the number of images in the show.
func (s *Slideshow) Len() int { return len(s.images) }

// Next loads the next image, wrapping around at the end. An image that fails
// to decode is reported and the position still advances.
func (s *Slideshow) Next() (*image.NRGBA, Image, error) {
	img := s.images[s.next]
	s.next = (s.next + 1) % len(s.images)
	frame, err := Load(img.AbsPath)
	return frame, img, err
}

// Run calls show with the next image every interval until ctx ends. The
// first image is expected to be shown by the caller already.
func (s *Slideshow) Run(ctx context.Context, interval time.Duration, log *slog.Logger, show func(image.Image) error) {
	if log == nil {
		log = slog.Default()
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		frame, img, err := s.Next()
		if err != nil {
			log.Warn("slideshow image skipped", "image", img.Key, "error", err)
			continue
		}
		if err := show(frame); err != nil {
			log.Warn("slideshow update failed", "image", img.Key, "error", err)
			continue
		}
		log.Debug("slideshow advanced", "image", img.Key, "size", frame.Rect.Size())
	}
}
