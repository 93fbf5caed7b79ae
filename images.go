package echofield

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strings"

	"github.com/eringen/echofield/imagevariant"
)

const (
	maxUploadSize  = 10 << 20 // 10MB
	featuredSubdir = "posts/featured"
)

var allowedImageFormats = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// storeFeaturedImage validates an uploaded image and saves the original,
// unmodified, under posts/featured/. It returns the stored name.
func (a *App) storeFeaturedImage(ctx context.Context, fh *multipart.FileHeader, slug string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("file too large (max 10MB)")
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("file too large (max 10MB)")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}
	ext, ok := allowedImageFormats[format]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q", format)
	}

	base := slugifyFilename(fh.Filename)
	if base == "" {
		base = slug
	}
	if base == "" {
		base = "image"
	}
	name, err := a.ensureUniqueName(ctx, base, ext)
	if err != nil {
		return "", err
	}
	if err := a.Media.Save(ctx, name, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(name)
	return Slugify(strings.TrimSuffix(name, ext))
}

// ensureUniqueName appends a counter until the name and every variant
// derived from it are free in media storage. Variants drop the extension,
// so photo.png and photo.gif would otherwise share photo@1x.webp.
func (a *App) ensureUniqueName(ctx context.Context, base, ext string) (string, error) {
	candidate := path.Join(featuredSubdir, base+ext)
	for counter := 2; ; counter++ {
		taken, err := a.nameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = path.Join(featuredSubdir, fmt.Sprintf("%s-%d%s", base, counter, ext))
	}
}

func (a *App) nameTaken(ctx context.Context, name string) (bool, error) {
	names := []string{name}
	for _, label := range a.Images.Labels() {
		names = append(names, imagevariant.Name(name, label))
	}
	for _, n := range names {
		exists, err := a.Media.Exists(ctx, n)
		if err != nil {
			return false, fmt.Errorf("check %s: %w", n, err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func mimeByName(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
