package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

var (
	ErrInvalidType = errors.New("invalid file type")
	ErrTooLarge    = errors.New("file too large")
)

// Constraint is the per-endpoint allow-list applied before any storage call.
type Constraint struct {
	Field        string
	AllowedTypes []string
	MaxBytes     int64
}

// File is an uploaded file fully buffered in memory, ready for the object
// store.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Validate checks the declared content type and byte length of a multipart
// part against the constraint. It is purely local; rejected uploads never
// reach the object store.
func Validate(fh *multipart.FileHeader, c Constraint) error {
	if fh == nil {
		return fmt.Errorf("%w: missing %s file", ErrInvalidType, c.Field)
	}

	if c.MaxBytes > 0 && fh.Size > c.MaxBytes {
		return fmt.Errorf("%w: %s exceeds the %dMB limit", ErrTooLarge, c.Field, c.MaxBytes>>20)
	}

	ct := declaredContentType(fh)
	if len(c.AllowedTypes) > 0 && !typeAllowed(ct, c.AllowedTypes) {
		return fmt.Errorf("%w: %s must be one of %s, got %q",
			ErrInvalidType, c.Field, strings.Join(c.AllowedTypes, ", "), ct)
	}

	return nil
}

// Open validates the part and buffers it in memory.
func Open(fh *multipart.FileHeader, c Constraint) (File, error) {
	if err := Validate(fh, c); err != nil {
		return File{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        fh.Filename,
		ContentType: declaredContentType(fh),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func declaredContentType(fh *multipart.FileHeader) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.ToLower(ct)
}

func typeAllowed(ct string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), ct) {
			return true
		}
	}
	return false
}
