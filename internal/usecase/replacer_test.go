package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"jobboard/internal/domain/profile"
	"jobboard/internal/pkg/upload"
	"jobboard/internal/repository"
)

type mockProfileRepo struct {
	byUser map[uuid.UUID]profile.ApplicantProfile
	byID   map[uuid.UUID]profile.ApplicantProfile

	setURLCalls []struct {
		ID      uuid.UUID
		Purpose profile.FilePurpose
		URL     *string
	}
}

func newMockProfileRepo(profiles ...profile.ApplicantProfile) *mockProfileRepo {
	m := &mockProfileRepo{
		byUser: map[uuid.UUID]profile.ApplicantProfile{},
		byID:   map[uuid.UUID]profile.ApplicantProfile{},
	}
	for _, p := range profiles {
		m.byUser[p.UserID] = p
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockProfileRepo) Create(_ context.Context, p profile.ApplicantProfile) (profile.ApplicantProfile, error) {
	if _, ok := m.byUser[p.UserID]; ok {
		return profile.ApplicantProfile{}, profile.ErrAlreadyExists
	}
	m.byUser[p.UserID] = p
	m.byID[p.ID] = p
	return p, nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.ApplicantProfile, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return profile.ApplicantProfile{}, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.ApplicantProfile, error) {
	p, ok := m.byID[id]
	if !ok {
		return profile.ApplicantProfile{}, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) Update(_ context.Context, id uuid.UUID, upd repository.ApplicantProfileUpdate) (profile.ApplicantProfile, error) {
	p, ok := m.byID[id]
	if !ok {
		return profile.ApplicantProfile{}, profile.ErrNotFound
	}
	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.Skills != nil {
		p.Skills = upd.Skills
	}
	if upd.ExperienceYears != nil {
		p.ExperienceYears = *upd.ExperienceYears
	}
	m.byID[id] = p
	m.byUser[p.UserID] = p
	return p, nil
}

func (m *mockProfileRepo) SetFileURL(_ context.Context, id uuid.UUID, purpose profile.FilePurpose, url *string) error {
	m.setURLCalls = append(m.setURLCalls, struct {
		ID      uuid.UUID
		Purpose profile.FilePurpose
		URL     *string
	}{id, purpose, url})

	p, ok := m.byID[id]
	if !ok {
		return profile.ErrNotFound
	}
	switch purpose {
	case profile.PurposeResume:
		p.ResumeURL = url
	case profile.PurposePhoto:
		p.PhotoURL = url
	}
	m.byID[id] = p
	m.byUser[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) Delete(_ context.Context, userID uuid.UUID) error {
	p, ok := m.byUser[userID]
	if !ok {
		return profile.ErrNotFound
	}
	delete(m.byID, p.ID)
	delete(m.byUser, userID)
	return nil
}

type mockStore struct {
	uploads []string
	removes []string

	uploadErr    error
	removeErr    error
	noPublicURLs bool
}

func (m *mockStore) Upload(_ context.Context, _, path string, _ []byte, _ string, _ bool) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploads = append(m.uploads, path)
	return nil
}

func (m *mockStore) Remove(_ context.Context, _ string, paths []string) error {
	m.removes = append(m.removes, paths...)
	return m.removeErr
}

func (m *mockStore) PublicURL(bucket, path string) string {
	if m.noPublicURLs {
		return ""
	}
	return "https://proj.supabase.co/storage/v1/object/public/" + bucket + "/" + path
}

var resumeSpec = ReplaceSpec{Purpose: profile.PurposeResume, Bucket: "resumes", Prefix: "resumes"}

func strPtr(s string) *string { return &s }

func applicant(userID uuid.UUID, resumeURL *string) profile.ApplicantProfile {
	return profile.ApplicantProfile{
		ID:        uuid.New(),
		UserID:    userID,
		FirstName: "Jane",
		LastName:  "Doe",
		ResumeURL: resumeURL,
	}
}

func TestReplace_DeletesExactOldPath(t *testing.T) {
	userID := uuid.New()
	old := "https://proj.supabase.co/storage/v1/object/public/resumes/resumes/Jane_Doe_old.pdf"
	repo := newMockProfileRepo(applicant(userID, strPtr(old)))
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	url, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(store.removes) != 1 || store.removes[0] != "resumes/Jane_Doe_old.pdf" {
		t.Fatalf("expected exactly the old path deleted, got %v", store.removes)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %v", store.uploads)
	}
	if !strings.Contains(url, "/resumes/resumes/Jane_Doe_") || !strings.HasSuffix(url, ".pdf") {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestReplace_NoPriorURLSkipsDelete(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	if _, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(store.removes) != 0 {
		t.Fatalf("expected no delete call, got %v", store.removes)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected upload to proceed, got %v", store.uploads)
	}
}

func TestReplace_UnparseableURLSkipsDelete(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, strPtr("https://elsewhere.example.com/cv.pdf")))
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	if _, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("parse failure must never block a new upload: %v", err)
	}
	if len(store.removes) != 0 {
		t.Fatalf("expected no delete for unparseable URL, got %v", store.removes)
	}
}

func TestReplace_DeleteFailureIsNonFatal(t *testing.T) {
	userID := uuid.New()
	old := "https://proj.supabase.co/storage/v1/object/public/resumes/resumes/old.pdf"
	repo := newMockProfileRepo(applicant(userID, strPtr(old)))
	store := &mockStore{removeErr: errors.New("storage down")}

	r := NewReplacer(store, repo, nil)
	if _, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("delete failure must not fail the replacement: %v", err)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected upload despite delete failure")
	}
}

func TestReplace_TwiceProducesDistinctPathsAndKeepsSecond(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	suffixes := []string{"aaaa0000", "bbbb1111"}
	i := 0
	r.randSuffix = func() string { s := suffixes[i%len(suffixes)]; i++; return s }

	_, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	secondURL, updated, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}

	if len(store.uploads) != 2 || store.uploads[0] == store.uploads[1] {
		t.Fatalf("expected two distinct paths, got %v", store.uploads)
	}
	if updated.ResumeURL == nil || *updated.ResumeURL != secondURL {
		t.Fatalf("expected profile URL to end at the second upload, got %v", updated.ResumeURL)
	}
	// The first blob is the one replaced, so it is the one deleted.
	if len(store.removes) != 1 || store.removes[0] != store.uploads[0] {
		t.Fatalf("expected first path deleted, got %v", store.removes)
	}
}

func TestReplace_ClearsURLBeforeUpload(t *testing.T) {
	userID := uuid.New()
	old := "https://proj.supabase.co/storage/v1/object/public/resumes/resumes/old.pdf"
	repo := newMockProfileRepo(applicant(userID, strPtr(old)))
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	if _, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(repo.setURLCalls) != 2 {
		t.Fatalf("expected clear + set, got %d calls", len(repo.setURLCalls))
	}
	if repo.setURLCalls[0].URL != nil {
		t.Fatalf("first SetFileURL must clear the column")
	}
	if repo.setURLCalls[1].URL == nil {
		t.Fatalf("second SetFileURL must persist the new URL")
	}
}

func TestReplace_MissingPublicURLIsFatal(t *testing.T) {
	userID := uuid.New()
	repo := newMockProfileRepo(applicant(userID, nil))
	store := &mockStore{noPublicURLs: true}

	r := NewReplacer(store, repo, nil)
	_, _, err := r.Replace(context.Background(), userID, resumeSpec, upload.File{ContentType: "application/pdf"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	for _, c := range repo.setURLCalls {
		if c.URL != nil {
			t.Fatalf("must never persist a URL for a half-finished upload")
		}
	}
}

func TestReplace_FallbackResolutionByProfileID(t *testing.T) {
	// Legacy rows were keyed by the identity id directly.
	legacyID := uuid.New()
	p := profile.ApplicantProfile{ID: legacyID, UserID: uuid.New(), FirstName: "Old", LastName: "Row"}
	repo := newMockProfileRepo()
	repo.byID[legacyID] = p
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	if _, _, err := r.Replace(context.Background(), legacyID, resumeSpec, upload.File{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("expected fallback resolution to succeed: %v", err)
	}
}

func TestReplace_ProfileNotFound(t *testing.T) {
	repo := newMockProfileRepo()
	store := &mockStore{}

	r := NewReplacer(store, repo, nil)
	_, _, err := r.Replace(context.Background(), uuid.New(), resumeSpec, upload.File{ContentType: "application/pdf"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.uploads) != 0 || len(store.removes) != 0 {
		t.Fatalf("expected no store calls for missing profile")
	}
}
