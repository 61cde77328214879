package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// MinConfidence is the floor below which extracted skills are discarded
const MinConfidence = 0.3

var (
	ErrInvalidSource = errors.New("invalid skill source")
	ErrEmptySource   = errors.New("no text to extract skills from")
)

// SkillStore persists a user's skills
type SkillStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkill, error)
	Merge(ctx context.Context, userID uuid.UUID, source string, skills []model.ExtractedSkill) error
	ReplaceManual(ctx context.Context, userID uuid.UUID, skills []model.ExtractedSkill) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ProfileSource renders a GitHub account as text
type ProfileSource interface {
	ProfileText(ctx context.Context, login string) (string, error)
}

// BlogSource renders a blog post as text
type BlogSource interface {
	BlogText(ctx context.Context, url string) (string, error)
}

// DocumentArchive keeps a copy of uploaded CVs
type DocumentArchive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// RecomputeNotifier is told when a user's skills change
type RecomputeNotifier interface {
	RequestRecompute(ctx context.Context, userID uuid.UUID) error
}

// SkillServiceDeps wires a SkillService. Archive and Notifier may be nil.
type SkillServiceDeps struct {
	Extractor SkillExtractor
	Store     SkillStore
	Github    ProfileSource
	Blogs     BlogSource
	Archive   DocumentArchive
	Notifier  RecomputeNotifier
}

// SkillService builds a user's skill profile from external sources
type SkillService struct {
	extractor SkillExtractor
	store     SkillStore
	github    ProfileSource
	blogs     BlogSource
	archive   DocumentArchive
	notifier  RecomputeNotifier
}

func NewSkillService(d SkillServiceDeps) *SkillService {
	return &SkillService{
		extractor: d.Extractor,
		store:     d.Store,
		github:    d.Github,
		blogs:     d.Blogs,
		archive:   d.Archive,
		notifier:  d.Notifier,
	}
}

// List returns the user's stored skills
func (s *SkillService) List(ctx context.Context, userID uuid.UUID) ([]model.UserSkill, error) {
	skills, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []model.UserSkill{}
	}
	return skills, nil
}

// ReplaceManual overwrites the user's hand-entered skills
func (s *SkillService) ReplaceManual(ctx context.Context, userID uuid.UUID, skills []model.ExtractedSkill) ([]model.UserSkill, error) {
	if err := s.store.ReplaceManual(ctx, userID, skills); err != nil {
		return nil, err
	}
	s.notify(ctx, userID)
	return s.List(ctx, userID)
}

// Delete removes one stored skill
func (s *SkillService) Delete(ctx context.Context, userID, skillID uuid.UUID) error {
	if err := s.store.Delete(ctx, skillID, userID); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

// Import extracts skills from text of the given source and merges them into
// the user's profile. Returns the full stored skill list.
func (s *SkillService) Import(ctx context.Context, userID uuid.UUID, source, text string) ([]model.UserSkill, error) {
	if !model.ValidSource(source) || source == model.SourceManual {
		return nil, ErrInvalidSource
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySource
	}

	extracted, err := s.extractor.ExtractSkills(ctx, source, text)
	if err != nil {
		return nil, fmt.Errorf("extracting %s skills: %w", source, err)
	}

	kept := FilterConfident(extracted, MinConfidence)
	log.Info().
		Str("userId", userID.String()).
		Str("source", source).
		Int("extracted", len(extracted)).
		Int("kept", len(kept)).
		Msg("Skills extracted")

	if err := s.store.Merge(ctx, userID, source, kept); err != nil {
		return nil, err
	}
	if len(kept) > 0 {
		s.notify(ctx, userID)
	}
	return s.List(ctx, userID)
}

// ImportDocument extracts skills from an uploaded CV, archiving the original
// when an archive is configured.
func (s *SkillService) ImportDocument(ctx context.Context, userID uuid.UUID, filename, declaredType string, data []byte) ([]model.UserSkill, error) {
	contentType := DetectContentType(filename, declaredType)
	text, err := ExtractDocumentText(contentType, data)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("cv/%s/%s.%s", userID, uuid.NewString(), ExtensionFor(contentType))
		if err := s.archive.Put(ctx, key, contentType, data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to archive CV")
		}
	}

	return s.Import(ctx, userID, model.SourceCV, text)
}

// ImportGithub extracts skills from a GitHub account's public repositories
func (s *SkillService) ImportGithub(ctx context.Context, userID uuid.UUID, login string) ([]model.UserSkill, error) {
	text, err := s.github.ProfileText(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("fetching github profile: %w", err)
	}
	return s.Import(ctx, userID, model.SourceGithub, text)
}

// ImportBlog extracts skills from a blog post
func (s *SkillService) ImportBlog(ctx context.Context, userID uuid.UUID, url string) ([]model.UserSkill, error) {
	text, err := s.blogs.BlogText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching blog post: %w", err)
	}
	return s.Import(ctx, userID, model.SourceBlog, text)
}

func (s *SkillService) notify(ctx context.Context, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.RequestRecompute(ctx, userID); err != nil {
		log.Warn().Err(err).Str("userId", userID.String()).Msg("Failed to request match recompute")
	}
}

// FilterConfident drops records below floor and records with blank names
func FilterConfident(skills []model.ExtractedSkill, floor float64) []model.ExtractedSkill {
	kept := make([]model.ExtractedSkill, 0, len(skills))
	for _, sk := range skills {
		if strings.TrimSpace(sk.Name) == "" || sk.Confidence < floor {
			continue
		}
		kept = append(kept, sk)
	}
	return kept
}
