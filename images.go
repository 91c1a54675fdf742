package homesite

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image from src, resizes it down to maxImageWidth
// if needed, and re-encodes it as JPEG. Returns metadata and the encoded
// bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	filename := slugifyFilename(originalName) + ".jpg"
	if filename == ".jpg" {
		filename = "image.jpg"
	}

	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         int64(buf.Len()),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe
// slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	return Slugify(strings.TrimSuffix(name, ext))
}

// ensureUniqueFilename appends a counter while the filename already exists
// in the uploads directory.
func (a *App) ensureUniqueFilename(img *Image) {
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	counter := 1
	for {
		if _, err := os.Stat(filepath.Join(a.Config.UploadsDir, candidate)); os.IsNotExist(err) {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
}

func (a *App) imageURL(filename string) string {
	return "/static/uploads/" + filename
}

// handleImageUpload accepts an editor image, normalizes it, and stores it
// under the uploads directory. The UI layer is external, so the endpoints
// speak JSON.
func (a *App) handleImageUpload(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	a.ensureUniqueFilename(&img)

	if err := os.MkdirAll(a.Config.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.Config.UploadsDir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	img.URL = a.imageURL(img.Filename)
	return c.JSON(http.StatusCreated, img)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}

	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	if err := os.Remove(filepath.Join(a.Config.UploadsDir, filename)); err != nil {
		if os.IsNotExist(err) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleImageList(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}

	entries, err := os.ReadDir(a.Config.UploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusOK, []Image{})
		}
		return err
	}

	images := make([]Image, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, Image{
			Filename: entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			URL:      a.imageURL(entry.Name()),
		})
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].ModTime.After(images[j].ModTime)
	})
	return c.JSON(http.StatusOK, images)
}
