package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

var ErrStorageUnavailable = errors.New("file storage not configured")

type FileService struct {
	Files     repo.FileRepository
	Users     repo.UserRepository
	Uploader  ObjectUploader
	Providers ProviderCache
	Logger    *logrus.Logger
}

func NewFileService(files repo.FileRepository, users repo.UserRepository, uploader ObjectUploader, providers ProviderCache, logger *logrus.Logger) *FileService {
	return &FileService{Files: files, Users: users, Uploader: uploader, Providers: providers, Logger: logger}
}

// UploadAvatar stores r as the caller's avatar and links it to their account.
func (s *FileService) UploadAvatar(ctx context.Context, id Identity, r io.Reader, filename, contentType string) (*entity.File, error) {
	if !id.valid() {
		return nil, ErrUnauthenticated
	}
	if s.Uploader == nil {
		return nil, ErrStorageUnavailable
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return nil, invalid("file", "is required")
	}

	objectPath := AvatarPath(id.UserID, uuid.NewString(), name)
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	f := &entity.File{Name: name, Path: objectPath, URL: url}
	if err := s.Files.Create(ctx, f); err != nil {
		return nil, err
	}
	if err := s.Users.SetAvatar(ctx, id.UserID, f.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// provider listings embed the avatar
	if s.Providers != nil {
		s.Providers.Invalidate(ctx)
	}
	if s.Logger != nil {
		helpers.LogInfo(s.Logger, "avatar uploaded", logrus.Fields{"user_id": id.UserID, "file_id": f.ID, "path": objectPath})
	}
	return f, nil
}

// AvatarPath is the object name of an avatar upload: avatars/<user>/<id><ext>.
func AvatarPath(userID int64, objectID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return filepath.ToSlash(filepath.Join("avatars", strconv.FormatInt(userID, 10), objectID+ext))
}
