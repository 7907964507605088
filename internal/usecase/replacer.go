package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain/profile"
	"jobboard/internal/infrastructure/objectstore"
	"jobboard/internal/pkg/upload"
	"jobboard/internal/repository"
)

// ReplaceSpec names the bucket and folder a file purpose lives in.
type ReplaceSpec struct {
	Purpose profile.FilePurpose
	Bucket  string
	Prefix  string
}

// Replacer swaps the single stored file of an (entity, purpose) pair:
// best-effort delete of the old blob, clear the URL column, upload under a
// fresh collision-resistant path, persist the new public URL. Concurrent
// replaces for the same profile are serialized with a per-entity lock.
type Replacer struct {
	store    objectstore.Store
	profiles repository.ApplicantProfileRepository
	logger   *log.Logger

	locks sync.Map // profile id -> *sync.Mutex

	now        func() time.Time
	randSuffix func() string
}

func NewReplacer(store objectstore.Store, profiles repository.ApplicantProfileRepository, logger *log.Logger) *Replacer {
	return &Replacer{
		store:      store,
		profiles:   profiles,
		logger:     logger,
		now:        time.Now,
		randSuffix: func() string { return uuid.NewString()[:8] },
	}
}

// Replace runs the full flow for the profile owned by userID and returns the
// new public URL together with the updated profile row.
func (r *Replacer) Replace(ctx context.Context, userID uuid.UUID, spec ReplaceSpec, file upload.File) (string, profile.ApplicantProfile, error) {
	p, err := resolveApplicantProfile(ctx, r.profiles, userID)
	if err != nil {
		return "", profile.ApplicantProfile{}, err
	}

	unlock := r.lock(p.ID)
	defer unlock()

	// The row may have changed while we waited for the lock.
	p, err = r.profiles.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", profile.ApplicantProfile{}, ErrNotFound
		}
		return "", profile.ApplicantProfile{}, err
	}

	if old := currentURL(p, spec.Purpose); old != "" {
		r.deleteOldBlob(ctx, spec, old)
		if err := r.profiles.SetFileURL(ctx, p.ID, spec.Purpose, nil); err != nil {
			return "", profile.ApplicantProfile{}, err
		}
	}

	path := r.newPath(spec, p, file.ContentType)
	if err := r.store.Upload(ctx, spec.Bucket, path, file.Data, file.ContentType, true); err != nil {
		return "", profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	url := r.store.PublicURL(spec.Bucket, path)
	if url == "" {
		// Never persist a half-finished upload.
		return "", profile.ApplicantProfile{}, fmt.Errorf("%w: no public URL for %s/%s", ErrUpstream, spec.Bucket, path)
	}

	if err := r.profiles.SetFileURL(ctx, p.ID, spec.Purpose, &url); err != nil {
		return "", profile.ApplicantProfile{}, err
	}

	updated, err := r.profiles.GetByID(ctx, p.ID)
	if err != nil {
		return "", profile.ApplicantProfile{}, err
	}
	return url, updated, nil
}

// DeleteStoredFiles removes every blob the profile still references. Used on
// profile deletion; failures are logged, never surfaced.
func (r *Replacer) DeleteStoredFiles(ctx context.Context, p profile.ApplicantProfile, specs ...ReplaceSpec) {
	for _, spec := range specs {
		old := currentURL(p, spec.Purpose)
		if old == "" {
			continue
		}
		r.deleteOldBlob(ctx, spec, old)
	}
}

func (r *Replacer) deleteOldBlob(ctx context.Context, spec ReplaceSpec, oldURL string) {
	path, ok := objectstore.PathFromPublicURL(spec.Bucket, oldURL)
	if !ok {
		// A parse failure must never block the new upload.
		if r.logger != nil {
			r.logger.Printf("[Replacer] skipping delete, unparseable stored URL purpose=%s url=%q", spec.Purpose, oldURL)
		}
		return
	}
	if err := r.store.Remove(ctx, spec.Bucket, []string{path}); err != nil {
		if r.logger != nil {
			r.logger.Printf("[Replacer] old blob delete failed purpose=%s path=%s err=%v", spec.Purpose, path, err)
		}
	}
}

func (r *Replacer) newPath(spec ReplaceSpec, p profile.ApplicantProfile, contentType string) string {
	first := sanitizeNamePart(p.FirstName, "user")
	last := sanitizeNamePart(p.LastName, "unknown")
	name := fmt.Sprintf("%s_%s_%d_%s%s",
		first, last, r.now().Unix(), r.randSuffix(), extensionFor(contentType))

	prefix := strings.Trim(spec.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (r *Replacer) lock(id uuid.UUID) func() {
	v, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func currentURL(p profile.ApplicantProfile, purpose profile.FilePurpose) string {
	switch purpose {
	case profile.PurposeResume:
		if p.ResumeURL != nil {
			return *p.ResumeURL
		}
	case profile.PurposePhoto:
		if p.PhotoURL != nil {
			return *p.PhotoURL
		}
	}
	return ""
}

func sanitizeNamePart(s, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
