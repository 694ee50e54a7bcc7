package domain

import (
	"context"
	"io"
)

// UploadKind selects the storage bucket and validation profile.
type UploadKind string

const (
	UploadCover  UploadKind = "cover"
	UploadAvatar UploadKind = "avatar"
)

// UploadUsecase stores user-submitted images and returns their public URL.
type UploadUsecase interface {
	// Store validates the content type and size, writes the file and
	// returns its serving URL. Returns ErrBadParamInput for disallowed
	// types or oversize payloads.
	Store(ctx context.Context, kind UploadKind, filename, contentType string, size int64, r io.Reader) (string, error)
}
