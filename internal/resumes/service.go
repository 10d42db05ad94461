package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/extract"
	"resume-matcher/internal/jobs"
	"resume-matcher/internal/profiles"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/shared/util"
	"resume-matcher/internal/skills"
)

const presignExpires = 15 * time.Minute

// ProfileSource resolves the profile a resume belongs to.
type ProfileSource interface {
	GetOrCreate(ctx context.Context, owner profiles.Owner) (profiles.Profile, error)
	Get(ctx context.Context, accountID string) (profiles.Profile, error)
}

// File is an upload as declared by the client.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Report is the outcome of analysing one stored resume.
type Report struct {
	Resume     Resume
	Profile    profiles.Profile
	Skills     []string
	Match      string
	MatchScore int
	Scores     []jobs.Score
}

// PresignedUpload tells the client where to PUT the file.
type PresignedUpload struct {
	UploadURL  string
	StorageKey string
	Expires    time.Duration
}

// Service stores resumes and runs skill extraction and job matching on them.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Profiles  ProfileSource
	Namespace string
	Mode      extract.Mode
	MaxBytes  int64
	Skills    *skills.Extractor
	Matcher   *jobs.Matcher
	now       func() time.Time
}

func NewService(repo Repo, store object.ObjectStore, profileSource ProfileSource, namespace string, mode extract.Mode, maxBytes int64) *Service {
	return &Service{
		Repo:      repo,
		Store:     store,
		Profiles:  profileSource,
		Namespace: namespace,
		Mode:      mode,
		MaxBytes:  maxBytes,
		Skills:    skills.NewExtractor(skills.Vocabulary),
		Matcher:   jobs.NewMatcher(jobs.Table),
		now:       time.Now,
	}
}

// Save validates f and stores it for profile. It is the direct-save path and
// applies the same validation as the upload form.
func (s *Service) Save(ctx context.Context, profile profiles.Profile, f File) (Resume, error) {
	if err := ValidatePDF(f.Name, f.ContentType); err != nil {
		metrics.IncUploadRejected()
		return Resume{}, err
	}
	if profile.ID == "" {
		return Resume{}, fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}

	key, size, _, err := s.Store.Save(ctx, profile.AccountID, f.Name, f.Body)
	if err != nil {
		return Resume{}, fmt.Errorf("store resume: %w", err)
	}
	return s.record(ctx, profile, key, f.Name, f.ContentType, size)
}

func (s *Service) record(ctx context.Context, profile profiles.Profile, key, name, contentType string, size int64) (Resume, error) {
	res := Resume{
		ID:          uuid.NewString(),
		ProfileID:   profile.ID,
		FileName:    name,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedAt:  s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		telemetry.Error("resumes.record_failed", map[string]any{
			"profile_id":  profile.ID,
			"storage_key": key,
			"err":         err,
		})
		return Resume{}, fmt.Errorf("record resume: %w", err)
	}
	metrics.IncUploadAccepted()
	return res, nil
}

// Analyze is the interactive upload: validate, attach to the owner's profile
// (creating it if needed), store, read back and match. When read-back fails the
// saved resume is returned with an ErrReadBack error.
func (s *Service) Analyze(ctx context.Context, owner profiles.Owner, f File) (Report, error) {
	start := time.Now()
	if err := ValidatePDF(f.Name, f.ContentType); err != nil {
		metrics.IncUploadRejected()
		return Report{}, err
	}

	profile, err := s.Profiles.GetOrCreate(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("resolve profile: %w", err)
	}

	res, err := s.Save(ctx, profile, f)
	if err != nil {
		return Report{}, err
	}

	raw, err := s.readBack(ctx, res.StorageKey)
	if err != nil {
		metrics.IncReadBackFailed()
		telemetry.Warn("resumes.read_back_failed", map[string]any{
			"account_id": owner.AccountID,
			"resume_id":  res.ID,
			"err":        err,
		})
		return Report{Resume: res, Profile: profile}, fmt.Errorf("%w: %w", ErrReadBack, err)
	}
	return s.analyze(ctx, profile, res, raw, start)
}

// RegisterStored records an object the client uploaded through a presigned URL
// and analyses it.
func (s *Service) RegisterStored(ctx context.Context, owner profiles.Owner, storageKey, fileName, contentType string) (Report, error) {
	start := time.Now()
	if err := ValidatePDF(fileName, contentType); err != nil {
		metrics.IncUploadRejected()
		return Report{}, err
	}
	if !object.OwnedBy(s.Namespace, owner.AccountID, storageKey) {
		return Report{}, ErrForeignKey
	}

	raw, err := s.readBack(ctx, storageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Report{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return Report{}, err
	}

	profile, err := s.Profiles.GetOrCreate(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("resolve profile: %w", err)
	}
	res, err := s.record(ctx, profile, storageKey, fileName, contentType, int64(len(raw)))
	if err != nil {
		return Report{}, err
	}
	return s.analyze(ctx, profile, res, raw, start)
}

func (s *Service) readBack(ctx context.Context, key string) ([]byte, error) {
	body, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r := io.Reader(body)
	if s.MaxBytes > 0 {
		r = io.LimitReader(body, s.MaxBytes+1)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	if s.MaxBytes > 0 && int64(buf.Len()) > s.MaxBytes {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}

func (s *Service) analyze(ctx context.Context, profile profiles.Profile, res Resume, raw []byte, start time.Time) (Report, error) {
	text, err := extract.Text(ctx, s.Mode, raw)
	if err != nil {
		return Report{Resume: res, Profile: profile}, err
	}

	found := s.Skills.Extract(text)
	best, score := s.Matcher.Best(found)
	report := Report{
		Resume:     res,
		Profile:    profile,
		Skills:     found,
		Match:      best,
		MatchScore: score,
		Scores:     s.Matcher.Scores(found),
	}

	metrics.IncBestMatch(best)
	metrics.ObserveAnalysisDurationMs(metrics.SinceMillis(start))
	telemetry.Info("resumes.analyzed", map[string]any{
		"account_id": profile.AccountID,
		"profile_id": profile.ID,
		"resume_id":  res.ID,
		"skills":     len(found),
		"match":      best,
		"score":      score,
	})
	return report, nil
}

// PresignUpload validates the declared file and returns a direct-upload URL
// inside the caller's storage area.
func (s *Service) PresignUpload(ctx context.Context, accountID, fileName, contentType string, sizeBytes int64) (PresignedUpload, error) {
	if err := ValidatePDF(fileName, contentType); err != nil {
		metrics.IncUploadRejected()
		return PresignedUpload{}, err
	}
	if sizeBytes <= 0 {
		return PresignedUpload{}, fmt.Errorf("%w: sizeBytes must be positive", ErrInvalidInput)
	}
	if s.MaxBytes > 0 && sizeBytes > s.MaxBytes {
		return PresignedUpload{}, ErrTooLarge
	}
	presigner, ok := s.Store.(object.Presigner)
	if !ok {
		return PresignedUpload{}, ErrPresignUnsupported
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	key := object.OwnerPrefix(s.Namespace, accountID) + strings.ReplaceAll(uuid.NewString(), "-", "") + "_" + sanitized
	url, err := presigner.PresignPut(ctx, key, PDFContentType, presignExpires)
	if err != nil {
		return PresignedUpload{}, err
	}
	return PresignedUpload{UploadURL: url, StorageKey: key, Expires: presignExpires}, nil
}

// List returns the account's resumes, newest first.
func (s *Service) List(ctx context.Context, accountID string) (profiles.Profile, []Resume, error) {
	profile, err := s.Profiles.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return profiles.Profile{}, []Resume{}, nil
		}
		return profiles.Profile{}, nil, err
	}
	out, err := s.Repo.ListByProfile(ctx, profile.ID)
	return profile, out, err
}

// Open returns a resume owned by accountID together with its bytes.
func (s *Service) Open(ctx context.Context, accountID, resumeID string) (Resume, io.ReadCloser, error) {
	res, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	profile, err := s.Profiles.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return Resume{}, nil, ErrNotFound
		}
		return Resume{}, nil, err
	}
	if res.ProfileID != profile.ID {
		return Resume{}, nil, ErrNotFound
	}
	body, err := s.Store.Open(ctx, res.StorageKey)
	if err != nil {
		return Resume{}, nil, err
	}
	return res, body, nil
}

// DeleteByProfile removes resume rows for a profile. Stored bytes are kept.
func (s *Service) DeleteByProfile(ctx context.Context, profileID string) error {
	n, err := s.Repo.DeleteByProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if n > 0 {
		telemetry.Info("resumes.deleted", map[string]any{
			"profile_id": profileID,
			"resumes":    n,
		})
	}
	return nil
}
