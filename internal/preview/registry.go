package preview

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown preview format")

// Registry maps file extensions to encoders.
type Registry struct {
	byExt map[string]Encoder
	order []string
}

// NewRegistry registers the built-in encoders.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Encoder)}
	for _, enc := range []Encoder{PNGEncoder{}, JPEGEncoder{}, BMPEncoder{}, TIFFEncoder{}} {
		r.Register(enc)
	}
	return r
}

// Register adds enc under each of its extensions, replacing earlier ones.
func (r *Registry) Register(enc Encoder) {
	for _, ext := range enc.Extensions() {
		if _, ok := r.byExt[ext]; !ok {
			r.order = append(r.order, ext)
		}
		r.byExt[ext] = enc
	}
}

// ForPath picks the encoder for path's extension.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	enc, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownFormat, ext, strings.Join(r.order, ", "))
	}
	return enc, nil
}

// Write encodes img into path using the encoder for its extension.
func (r *Registry) Write(path string, img image.Image) (Encoder, error) {
	enc, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriterSize(f, 256*1024)
	if err := enc.Encode(w, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return enc, f.Close()
}

// String returns a summary of registered extensions.
func (r *Registry) String() string {
	return fmt.Sprintf("preview formats: %s", strings.Join(r.order, ", "))
}
