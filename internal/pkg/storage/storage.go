package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilePath = errors.New("invalid file path")
)

type FileStorage interface {
	// Upload stores a file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a public URL for a stored key
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// Storage key prefixes per upload category.
const (
	DirAttendanceProof = "attendance"
	DirLeaveDocument   = "leave-documents"
	DirTaskPhoto       = "tasks"
)
