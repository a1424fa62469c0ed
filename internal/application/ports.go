package application

import (
	"context"
	"io"
	"time"
)

// SlotLocker grants short exclusive locks; ok is false while another holder owns key.
type SlotLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// JobPublisher enqueues JSON jobs for background workers.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ObjectUploader stores an object and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// ProviderCache drops the cached provider listing after provider data changes.
type ProviderCache interface {
	Invalidate(ctx context.Context)
}
