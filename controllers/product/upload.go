package productControllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

const (
	maxImageSize   = 5 << 20 // 5MB per image
	maxImageCount  = 5
	maxDigitalSize = 100 << 20 // 100MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var allowedDigitalTypes = map[string]bool{
	"application/pdf":      true,
	"application/zip":      true,
	"application/epub+zip": true,
	"video/mp4":            true,
	"audio/mpeg":           true,
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// saveUpload stores one file under the upload dir. If storage is
// unreachable a placeholder URL is substituted so local dev keeps working.
func saveUpload(c *gin.Context, subdir, filename string, save func(dst string) error) string {
	dir := filepath.Join(uploadDir(), subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return placeholderURL(filename)
	}
	dst := filepath.Join(dir, filename)
	if err := save(dst); err != nil {
		return placeholderURL(filename)
	}
	return "/uploads/" + subdir + "/" + filename
}

func placeholderURL(filename string) string {
	return "https://placehold.co/600x400?text=" + strings.ReplaceAll(filename, " ", "+")
}

func uniqueFilename(original string) string {
	ext := filepath.Ext(original)
	return uuid.NewString() + ext
}

// POST /products/images
//
// Accepts up to 5 multipart images, 5MB each, against the MIME allow-list.
func UploadImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		files := form.File["images"]
		if len(files) == 0 {
			utils.Fail(c, http.StatusBadRequest, "No images provided")
			return
		}
		if len(files) > maxImageCount {
			utils.Fail(c, http.StatusBadRequest, fmt.Sprintf("At most %d images allowed", maxImageCount))
			return
		}

		var urls []string
		for _, file := range files {
			if file.Size > maxImageSize {
				utils.Fail(c, http.StatusBadRequest, fmt.Sprintf("Image %s exceeds the 5MB limit", file.Filename))
				return
			}
			if !allowedImageTypes[file.Header.Get("Content-Type")] {
				utils.Fail(c, http.StatusBadRequest, fmt.Sprintf("Image %s has an unsupported type", file.Filename))
				return
			}
			url := saveUpload(c, "products", uniqueFilename(file.Filename), func(dst string) error {
				return c.SaveUploadedFile(file, dst)
			})
			urls = append(urls, url)
		}

		utils.Success(c, http.StatusCreated, "Images uploaded", gin.H{"urls": urls})
	}
}

// POST /products/digital-file
func UploadDigitalFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "File is required")
			return
		}
		if file.Size > maxDigitalSize {
			utils.Fail(c, http.StatusBadRequest, "File exceeds the 100MB limit")
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !allowedDigitalTypes[contentType] {
			utils.Fail(c, http.StatusBadRequest, "Unsupported file type")
			return
		}

		url := saveUpload(c, "digital", uniqueFilename(file.Filename), func(dst string) error {
			return c.SaveUploadedFile(file, dst)
		})

		utils.Success(c, http.StatusCreated, "File uploaded", gin.H{
			"url":       url,
			"file_type": contentType,
			"file_size": file.Size,
		})
	}
}
