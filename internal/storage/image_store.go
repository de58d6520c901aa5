package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"shipment_backoffice/internal/apperrors"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ImageStore keeps truck photos on local disk. Files are re-encoded as JPEG
// and served from URLPrefix.
type ImageStore struct {
	Dir          string
	URLPrefix    string
	MaxDimension int
}

func NewImageStore(dir, urlPrefix string, maxDimension int) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &ImageStore{
		Dir:          dir,
		URLPrefix:    strings.TrimRight(urlPrefix, "/"),
		MaxDimension: maxDimension,
	}, nil
}

// SaveTruckImage decodes the upload, shrinks it to fit MaxDimension and
// returns the web path of the stored copy.
func (s *ImageStore) SaveTruckImage(truckID uint, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", apperrors.Validation("Only image files (jpg, png, gif, bmp, tiff) can be uploaded.")
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperrors.Validation("The uploaded file is not a valid image.")
	}
	if s.MaxDimension > 0 {
		img = imaging.Fit(img, s.MaxDimension, s.MaxDimension, imaging.Lanczos)
	}

	name := fmt.Sprintf("truck_%d_%s.jpg", truckID, uuid.NewString())
	if err := imaging.Save(img, filepath.Join(s.Dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", apperrors.Unhandled(err, "saving image for truck %d", truckID)
	}
	return path.Join(s.URLPrefix, name), nil
}

// Remove deletes a file previously returned by SaveTruckImage. Paths outside
// the store and missing files are ignored.
func (s *ImageStore) Remove(webPath string) error {
	if !strings.HasPrefix(webPath, s.URLPrefix+"/") {
		return nil
	}
	name := path.Base(webPath)
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
