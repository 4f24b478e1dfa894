package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/falak-club/apiserver/internal/storage"
	"github.com/rs/xid"
)

// Uploader stores uploaded images and hands back their public address.
// The flow is upload first, record the address second; when the record
// write fails the caller discards the orphaned object.
type Uploader struct {
	store  *storage.Storage
	logger *slog.Logger
}

// NewUploader constructs an Uploader over the given storage backend.
func NewUploader(store *storage.Storage, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, logger: logger}
}

// Put uploads an image under the given key prefix and returns the object
// key and its public address.
func (u *Uploader) Put(ctx context.Context, prefix string, img ImageFile) (string, string, error) {
	ext := strings.ToLower(path.Ext(img.Filename))
	key := fmt.Sprintf("%s/%s%s", prefix, xid.New().String(), ext)

	reader := bytes.NewReader(img.Data)
	if err := u.store.Put(ctx, key, reader, int64(len(img.Data)), img.ContentType); err != nil {
		return "", "", err
	}
	return key, u.store.PublicURL(key), nil
}

// Discard removes an uploaded object after the row write that should
// have referenced it failed. Best effort; a failed delete only logs.
func (u *Uploader) Discard(ctx context.Context, key string) {
	if err := u.store.Delete(ctx, key); err != nil {
		u.logger.Error("discard uploaded object failed", "key", key, "error", err)
	}
}
