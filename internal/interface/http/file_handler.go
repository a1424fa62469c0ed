package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

const maxAvatarBytes = 5 << 20

type FileService interface {
	UploadAvatar(ctx context.Context, id app.Identity, r io.Reader, filename, contentType string) (*entity.File, error)
}

type FileHandler struct {
	Svc    FileService
	Logger *logrus.Logger
}

func NewFileHandler(svc FileService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{Svc: svc, Logger: logger}
}

type fileResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

func toFileResponse(f *entity.File) *fileResponse {
	if f == nil {
		return nil
	}
	return &fileResponse{ID: f.ID, Name: f.Name, Path: f.Path, URL: f.URL}
}

// Store POST /api/files (multipart field "file")
func (h *FileHandler) Store(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation fails", map[string]string{"file": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "validation fails", map[string]string{"file": "must be at most 5MB"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = src.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	f, err := h.Svc.UploadAvatar(c.Request.Context(), identity(c), src, fh.Filename, contentType)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFileResponse(f), "file uploaded", nil)
}
