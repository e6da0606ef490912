package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxScreenshotSize is the upload cap for payment screenshots
const MaxScreenshotSize = 5 * 1024 * 1024 // 5 MiB

var (
	imageExtensions      = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}
	screenshotExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}
)

// AllowedImage reports whether the filename has an accepted image extension
func AllowedImage(filename string) bool {
	return imageExtensions[fileExtension(filename)]
}

// AllowedScreenshot reports whether the filename is an accepted screenshot type
func AllowedScreenshot(filename string) bool {
	return screenshotExtensions[fileExtension(filename)]
}

func fileExtension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return strings.ToLower(ext)
}

// UploadDir returns the root directory for locally stored uploads
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_FOLDER"); dir != "" {
		return dir
	}
	return "uploads"
}

func cloudinaryConfigured() bool {
	return os.Getenv("CLOUDINARY_CLOUD_NAME") != "" &&
		os.Getenv("CLOUDINARY_API_KEY") != "" &&
		os.Getenv("CLOUDINARY_API_SECRET") != ""
}

// StoreImage saves an uploaded image and returns its URL. Cloudinary is
// tried first when configured; otherwise the file is written under the
// local upload directory with a unique name and a /uploads/... URL is
// returned.
func StoreImage(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if cloudinaryConfigured() {
		url, err := uploadToCloudinary(ctx, fh, folder)
		if err == nil {
			return url, nil
		}
		log.Warn().Err(err).Str("folder", folder).Msg("cloudinary upload failed, falling back to local storage")
	}
	return storeLocal(fh, folder)
}

func uploadToCloudinary(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	resp, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "hindi_samiti/" + folder})
	if err != nil {
		return "", err
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for %s", fh.Filename)
	}
	return resp.SecureURL, nil
}

// StoreScreenshot saves a payment screenshot under the local
// screenshots directory and returns its URL. Screenshots stay local so
// the admin review endpoint can serve them with the bearer check.
func StoreScreenshot(fh *multipart.FileHeader) (string, error) {
	return storeLocal(fh, "screenshots")
}

func storeLocal(fh *multipart.FileHeader, folder string) (string, error) {
	dir := filepath.Join(UploadDir(), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := fileExtension(fh.Filename)
	if ext == "" {
		ext = "jpg"
	}
	filename := uuid.NewString() + "." + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + folder + "/" + filename, nil
}
