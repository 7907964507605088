package usecase

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"

	"jobboard/internal/config"
)

func fileHeader(t *testing.T, field, name, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{'x'}, size)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	fhs := form.File[field]
	if len(fhs) != 1 {
		t.Fatalf("expected one file header, got %d", len(fhs))
	}
	return fhs[0]
}

func newApplicantService(repo *mockProfileRepo, store *mockStore) *ApplicantService {
	replacer := NewReplacer(store, repo, nil)
	sb := config.SupabaseConfig{ResumeBucket: "resumes", PhotoBucket: "photos"}
	return NewApplicantService(repo, replacer, sb, nil)
}

func TestCreateProfileValidatesResumeBeforeInsert(t *testing.T) {
	repo := newMockProfileRepo()
	store := &mockStore{}
	svc := newApplicantService(repo, store)

	in := CreateApplicantProfileInput{FirstName: "Jane", LastName: "Doe"}
	bad := fileHeader(t, "resume", "cv.exe", "application/octet-stream", 128)

	_, err := svc.CreateProfile(context.Background(), uuid.New(), "jane@example.com", in, bad)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.byUser) != 0 {
		t.Fatal("rejected upload must not insert a profile row")
	}
	if len(store.uploads) != 0 {
		t.Fatal("rejected upload must never reach the object store")
	}
}

func TestCreateProfileStoresResumeAndURL(t *testing.T) {
	repo := newMockProfileRepo()
	store := &mockStore{}
	svc := newApplicantService(repo, store)

	userID := uuid.New()
	in := CreateApplicantProfileInput{FirstName: "Jane", LastName: "Doe", Skills: []string{"go"}}
	resume := fileHeader(t, "resume", "cv.pdf", "application/pdf", 1024)

	created, err := svc.CreateProfile(context.Background(), userID, "jane@example.com", in, resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ResumeURL == nil || !strings.Contains(*created.ResumeURL, "/resumes/resumes/Jane_Doe_") {
		t.Fatalf("resume URL = %v", created.ResumeURL)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %v", store.uploads)
	}
}

func TestCreateProfileDuplicateIsConflict(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	svc := newApplicantService(repo, &mockStore{})

	in := CreateApplicantProfileInput{FirstName: "Jane", LastName: "Doe"}
	resume := fileHeader(t, "resume", "cv.pdf", "application/pdf", 1024)

	_, err := svc.CreateProfile(context.Background(), userID, "jane@example.com", in, resume)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUploadPhotoRejectsPDF(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	store := &mockStore{}
	svc := newApplicantService(repo, store)

	pdf := fileHeader(t, "photo", "cv.pdf", "application/pdf", 1024)
	_, _, err := svc.UploadPhoto(context.Background(), userID, pdf)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(store.uploads) != 0 {
		t.Fatal("invalid photo must never reach the object store")
	}
}

func TestUploadResumeReplacesExisting(t *testing.T) {
	userID := uuid.New()
	old := "https://proj.supabase.co/storage/v1/object/public/resumes/resumes/Jane_Doe_old.pdf"
	repo := newMockProfileRepo(applicant(userID, strPtr(old)))
	store := &mockStore{}
	svc := newApplicantService(repo, store)

	resume := fileHeader(t, "resume", "cv.pdf", "application/pdf", 1024)
	url, updated, err := svc.UploadResume(context.Background(), userID, resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ResumeURL == nil || *updated.ResumeURL != url {
		t.Fatalf("profile URL %v does not match returned %q", updated.ResumeURL, url)
	}
	if len(store.removes) != 1 || store.removes[0] != "resumes/Jane_Doe_old.pdf" {
		t.Fatalf("expected old blob removed, got %v", store.removes)
	}
}

func TestUpdateProfileAppliesPatch(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	svc := newApplicantService(repo, &mockStore{})

	years := 4
	updated, err := svc.UpdateProfile(context.Background(), userID, UpdateApplicantProfileInput{
		FirstName:       strPtr("Janet"),
		Skills:          []string{"go", "sql"},
		ExperienceYears: &years,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "Janet" || updated.ExperienceYears != 4 || len(updated.Skills) != 2 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	// Untouched fields survive.
	if updated.LastName != "Doe" {
		t.Fatalf("last name changed unexpectedly: %q", updated.LastName)
	}
}

func TestDeleteProfileRemovesStoredFiles(t *testing.T) {
	userID := uuid.New()
	p := applicant(userID, strPtr("https://proj.supabase.co/storage/v1/object/public/resumes/resumes/cv.pdf"))
	photo := "https://proj.supabase.co/storage/v1/object/public/photos/photos/me.png"
	p.PhotoURL = &photo
	repo := newMockProfileRepo(p)
	store := &mockStore{}
	svc := newApplicantService(repo, store)

	if err := svc.DeleteProfile(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.removes) != 2 {
		t.Fatalf("expected both blobs removed, got %v", store.removes)
	}
	if _, err := svc.GetProfile(context.Background(), userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newApplicantService(newMockProfileRepo(), &mockStore{})
	if _, err := svc.GetProfile(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
