package upload

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: name,
		Header:   h,
		Size:     size,
	}
}

func TestValidate_NilFile(t *testing.T) {
	err := Validate(nil, Constraint{Field: "resume"})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestValidate_TypeOutsideAllowList(t *testing.T) {
	c := Constraint{
		Field:        "resume",
		AllowedTypes: []string{"application/pdf"},
		MaxBytes:     10 << 20,
	}
	err := Validate(header("cv.docx", "application/msword", 1024), c)
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestValidate_ContentTypeWithParams(t *testing.T) {
	c := Constraint{
		Field:        "resume",
		AllowedTypes: []string{"application/pdf"},
	}
	if err := Validate(header("cv.pdf", "application/PDF; charset=binary", 1024), c); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidate_TooLargeMentionsLimit(t *testing.T) {
	c := Constraint{
		Field:        "photo",
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:     5 << 20,
	}
	err := Validate(header("me.jpg", "image/jpeg", 6<<20), c)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if !strings.Contains(err.Error(), "5MB") {
		t.Fatalf("expected message to mention the 5MB limit, got %q", err.Error())
	}
}

func TestValidate_AtLimitPasses(t *testing.T) {
	c := Constraint{
		Field:        "photo",
		AllowedTypes: []string{"image/webp"},
		MaxBytes:     5 << 20,
	}
	if err := Validate(header("me.webp", "image/webp", 5<<20), c); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
