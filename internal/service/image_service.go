package service

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrImageType = errors.New("only .jpg, .jpeg and .png files are allowed")
)

// thumbWidth 是列表缩略图的目标宽度，小于该宽度的原图不再生成缩略图。
const thumbWidth = 480

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ImageService stores uploaded post images under a public directory using
// generated, collision-free filenames.
type ImageService struct {
	uploadDir string
	uploadURL string
}

// NewImageService creates an ImageService instance.
func NewImageService(uploadDir, uploadURL string) *ImageService {
	return &ImageService{uploadDir: uploadDir, uploadURL: uploadURL}
}

// ValidateFilename checks the extension against the allow-list,
// case-insensitively. The client filename is used for nothing else.
func (s *ImageService) ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedImageExts[ext]; !ok {
		return ErrImageType
	}
	return nil
}

// Save writes the uploaded file under the upload directory with a generated
// date-uuid name and returns its public URL path plus a thumbnail URL.
// Thumbnail generation is best-effort: a decode failure leaves it empty.
func (s *ImageService) Save(file *multipart.FileHeader) (string, string, error) {
	if err := s.ValidateFilename(file.Filename); err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	dstPath := filepath.Join(s.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", "", err
	}
	if err := dst.Close(); err != nil {
		return "", "", err
	}

	imageURL := path.Join(s.uploadURL, name)

	thumbURL := ""
	if thumbName, err := s.makeThumbnail(dstPath, name, ext); err == nil && thumbName != "" {
		thumbURL = path.Join(s.uploadURL, thumbName)
	}

	return imageURL, thumbURL, nil
}

// Remove deletes the file behind a public URL path if it still exists.
func (s *ImageService) Remove(urlPath string) error {
	if strings.TrimSpace(urlPath) == "" {
		return nil
	}

	rel := strings.TrimPrefix(urlPath, s.uploadURL)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}

	full := filepath.Join(s.uploadDir, filepath.FromSlash(rel))
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(full)
}

func (s *ImageService) makeThumbnail(srcPath, name, ext string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}

	bounds := src.Bounds()
	if bounds.Dx() <= thumbWidth || bounds.Dy() == 0 {
		return "", nil
	}

	height := bounds.Dy() * thumbWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, thumbWidth, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Src, nil)

	thumbName := "thumb-" + name
	out, err := os.Create(filepath.Join(s.uploadDir, thumbName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	switch ext {
	case ".png":
		err = png.Encode(out, scaled)
	default:
		err = jpeg.Encode(out, scaled, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", err
	}

	return thumbName, nil
}
