package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
)

func TestUploadAvatar(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: 5, Name: "Dr. Paulo", Provider: true})
	files := &fakeFiles{}
	up := &fakeUploader{}
	cache := &fakeProviderCache{}
	svc := NewFileService(files, users, up, cache, nil)

	f, err := svc.UploadAvatar(context.Background(), Identity{UserID: 5}, strings.NewReader("png-bytes"), "Me.PNG", "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(up.path, "avatars/5/") || !strings.HasSuffix(up.path, ".png") {
		t.Fatalf("object path = %s", up.path)
	}
	if up.body != "png-bytes" || up.contentType != "image/png" {
		t.Fatalf("uploaded %q as %q", up.body, up.contentType)
	}
	if f.ID != 1 || f.Name != "Me.PNG" || f.Path != up.path || f.URL == "" {
		t.Fatalf("file = %+v", f)
	}
	if users.users[5].AvatarID == nil || *users.users[5].AvatarID != f.ID {
		t.Fatalf("avatar not linked")
	}
	if cache.invalidated != 1 {
		t.Fatalf("provider cache invalidated %d times, want 1", cache.invalidated)
	}
}

func TestUploadAvatar_Failures(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: 5})

	cache := &fakeProviderCache{}
	svc := NewFileService(&fakeFiles{}, users, nil, cache, nil)
	if _, err := svc.UploadAvatar(context.Background(), Identity{UserID: 5}, strings.NewReader("x"), "a.png", "image/png"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}

	boom := errors.New("bucket gone")
	files := &fakeFiles{}
	svc = NewFileService(files, users, &fakeUploader{err: boom}, cache, nil)
	if _, err := svc.UploadAvatar(context.Background(), Identity{UserID: 5}, strings.NewReader("x"), "a.png", "image/png"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(files.created) != 0 {
		t.Fatalf("file row written after failed upload")
	}

	if _, err := svc.UploadAvatar(context.Background(), Identity{}, strings.NewReader("x"), "a.png", "image/png"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v", err)
	}
	if cache.invalidated != 0 {
		t.Fatalf("provider cache invalidated after failed uploads")
	}
}

func TestAvatarPath(t *testing.T) {
	if got := AvatarPath(7, "abc", "photo.JPG"); got != "avatars/7/abc.jpg" {
		t.Fatalf("path = %s", got)
	}
}
