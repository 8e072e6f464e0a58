package httptransport

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-server-go/internal/platform/errors"
	"blog-server-go/internal/platform/objectstore"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploader pushes multipart image uploads into the object store under a
// server-generated name.
type Uploader struct {
	store objectstore.Store
}

func NewUploader(store objectstore.Store) *Uploader {
	return &Uploader{store: store}
}

// SaveImage stores the named form file and returns its URL. A missing
// file is not an error; the returned URL is empty.
func (u *Uploader) SaveImage(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	if file.Size > maxUploadSize {
		return "", errors.New(errors.KindValidation, "upload",
			"image exceeds the 5MB size limit")
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", errors.New(errors.KindValidation, "upload",
			"only png, jpeg, gif and webp images are accepted")
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(errors.KindUnknown, "upload",
			"failed to read upload", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	url, err := u.store.Save(c.Request.Context(), name, contentType, src)
	if err != nil {
		return "", errors.Wrap(errors.KindUnknown, "upload",
			"failed to store upload", err)
	}
	return url, nil
}
