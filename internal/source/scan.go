package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Image is an image file found by Scan.
type Image struct {
	AbsPath string
	// RelPath is relative to the scanned directory, with forward slashes.
	RelPath string
	// Key is RelPath without its extension.
	Key string
	// Format is the normalized format name (png, jpeg, gif, webp, bmp, tiff).
	Format string
	Size   int64
}

var imageExtensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".webp": "webp",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
}

// IsImage reports whether path has a recognized image extension.
func IsImage(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scan walks dir in lexical order and returns every image file in it,
// skipping hidden directories.
func Scan(dir string) ([]Image, error) {
	var images []Image

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := imageExtensions[ext]
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		images = append(images, Image{
			AbsPath: path,
			RelPath: rel,
			Key:     rel[:len(rel)-len(ext)],
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})
	return images, err
}
