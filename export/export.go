// Package export writes snapshots of a painted wall as raster images or PDF documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/graffiti/utils"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
)

// Supported output formats.
const (
	JPEG = "jpeg"
	PNG  = "png"
	BMP  = "bmp"
	PDF  = "pdf"
)

// Extensions lists the accepted output file extensions.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".pdf"}

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Meta describes the snapshot in the PDF document properties.
type Meta struct {
	Title     string
	SessionID string
	Created   time.Time
}

// FormatFromPath returns the output format for the file extension of path.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !utils.Contains(Extensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	switch ext {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".pdf":
		return PDF, nil
	}
	return JPEG, nil
}

// Write encodes img into w. Files are encoded in the format given by their
// extension, any other writer receives a PNG stream.
func Write(w io.Writer, img image.Image, meta Meta) error {
	format := PNG
	if f, ok := w.(*os.File); ok && filepath.Ext(f.Name()) != "" {
		var err error
		if format, err = FormatFromPath(f.Name()); err != nil {
			return err
		}
	}
	return Encode(w, img, format, meta)
}

// Encode encodes img into w in the requested format.
func Encode(w io.Writer, img image.Image, format string, meta Meta) error {
	switch format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case PDF:
		return encodePDF(w, img, meta)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// encodePDF places img on a single page having the image size in points.
func encodePDF(w io.Writer, img image.Image, meta Meta) error {
	b := img.Bounds()
	if b.Empty() {
		return errors.New("cannot export an empty image")
	}
	width, height := float64(b.Dx()), float64(b.Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	orientation := "P"
	if width > height {
		orientation = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	id := meta.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	title := meta.Title
	if title == "" {
		title = "Graffiti"
	}
	created := meta.Created
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetTitle(title, true)
	pdf.SetSubject("graffiti wall snapshot", false)
	pdf.SetCreator("graffiti", false)
	pdf.SetKeywords("session:"+id, false)
	pdf.SetCreationDate(created)

	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(id, opts, &buf)
	pdf.ImageOptions(id, 0, 0, width, height, false, opts, 0, "")

	return pdf.Output(w)
}

// SaveFile writes img to path, creating or truncating the file.
func SaveFile(path string, img image.Image, meta Meta) (err error) {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, img, meta)
}
