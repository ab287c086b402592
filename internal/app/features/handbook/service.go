// internal/app/features/handbook/service.go
package handbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sectionstore "github.com/dalemusser/stratahandbook/internal/app/store/sections"
	"github.com/dalemusser/stratahandbook/internal/app/system/catalog"
	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/app/system/editlog"
	"github.com/dalemusser/stratahandbook/internal/app/system/search"
	"github.com/dalemusser/stratahandbook/internal/app/system/timeouts"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrForbidden is returned when a non-admin invokes an edit action.
	ErrForbidden = errors.New("handbook: admin capability required")
	// ErrSectionNotFound is returned for an unknown section id.
	ErrSectionNotFound = errors.New("handbook: section not found")
	// ErrSubsectionNotFound is returned for a stale subsection reference.
	ErrSubsectionNotFound = errors.New("handbook: subsection not found")
)

// Actor is the user performing an edit.
type Actor struct {
	Email string
	Admin bool
}

// Service owns reading and editing the handbook content tree.
type Service struct {
	store    *sectionstore.Store
	recorder *editlog.Recorder
	logger   *zap.Logger
	faqID    string
}

// NewService creates a Service. A nil recorder disables edit logging.
func NewService(store *sectionstore.Store, recorder *editlog.Recorder, logger *zap.Logger, faqSectionID string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if faqSectionID == "" {
		faqSectionID = catalog.SectionFAQ
	}
	return &Service{store: store, recorder: recorder, logger: logger, faqID: faqSectionID}
}

// FAQSectionID is the section listed for an empty search.
func (s *Service) FAQSectionID() string { return s.faqID }

// Sections returns the handbook in navigation order. Stored sections are laid
// over the built-in catalog; when storage cannot be read the catalog alone
// is returned.
func (s *Service) Sections(ctx context.Context) []models.Section {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.logger, "load sections")
	defer cancel()

	stored, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("loading sections failed, using built-in catalog", zap.Error(err))
		return catalog.Default()
	}
	return catalog.Merge(stored, catalog.Default())
}

// Search scores query against the current content tree.
func (s *Service) Search(ctx context.Context, query string, limit int) []search.Result {
	records := search.BuildIndex(s.Sections(ctx))
	return search.Search(records, query, search.Options{Limit: limit, FAQSectionID: s.faqID})
}

// Subsection returns one subsection and the section holding it.
func (s *Service) Subsection(ctx context.Context, sectionID, subID string) (models.Section, models.Subsection, error) {
	sections := s.Sections(ctx)
	sec, ok := catalog.Find(sections, sectionID)
	if !ok {
		return models.Section{}, models.Subsection{}, ErrSectionNotFound
	}
	i := sec.FindSubsection(subID)
	if i < 0 {
		return *sec, models.Subsection{}, ErrSubsectionNotFound
	}
	return *sec, sec.Subsections[i], nil
}

// CreateSubsection returns a new, unsaved subsection for sectionID: a fresh
// id and a single empty paragraph block.
func (s *Service) CreateSubsection(ctx context.Context, actor Actor, sectionID string) (models.Subsection, error) {
	if !actor.Admin {
		return models.Subsection{}, ErrForbidden
	}
	if _, ok := catalog.Find(s.Sections(ctx), sectionID); !ok {
		s.logger.Warn("create in unknown section", zap.String("section_id", sectionID), zap.String("user", actor.Email))
		return models.Subsection{}, ErrSectionNotFound
	}
	return models.Subsection{
		ID:     uuid.NewString(),
		Blocks: content.NewSubsectionBlocks(),
	}, nil
}

// SaveRequest is one editor submission.
type SaveRequest struct {
	SectionID  string
	Subsection models.Subsection
	// New marks a subsection created in the editor and not yet stored.
	New bool
}

// SaveSubsection replaces the subsection's blocks and derived fields and
// persists the owning section. An update of a subsection that no longer
// exists is aborted with ErrSubsectionNotFound. The edit log entry is
// written after the save and never fails it.
func (s *Service) SaveSubsection(ctx context.Context, actor Actor, req SaveRequest) (models.Subsection, error) {
	if !actor.Admin {
		return models.Subsection{}, ErrForbidden
	}
	sub := content.Canonicalize(req.Subsection)
	if strings.TrimSpace(sub.ID) == "" {
		sub.ID = uuid.NewString()
	}

	root, sec, err := s.locate(ctx, req.SectionID)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			s.logger.Warn("save in unknown section", zap.String("section_id", req.SectionID), zap.String("user", actor.Email))
		}
		return sub, err
	}

	i := sec.FindSubsection(sub.ID)
	var before *models.Subsection
	switch {
	case i >= 0:
		prev := sec.Subsections[i]
		before = &prev
		sec.Subsections[i] = sub
	case req.New:
		sec.Subsections = append(sec.Subsections, sub)
	default:
		s.logger.Warn("save of stale subsection",
			zap.String("section_id", req.SectionID),
			zap.String("subsection_id", sub.ID),
			zap.String("user", actor.Email))
		return sub, ErrSubsectionNotFound
	}

	root.UpdatedBy = actor.Email
	if err := s.persist(ctx, *root); err != nil {
		return sub, err
	}

	if before != nil {
		s.recorder.Updated(ctx, actor.Email, req.SectionID, *before, sub)
	} else {
		s.recorder.Created(ctx, actor.Email, req.SectionID, sub)
	}
	return sub, nil
}

// DeleteSubsection removes a subsection from its section. The delete is
// logged before the section is saved.
func (s *Service) DeleteSubsection(ctx context.Context, actor Actor, sectionID, subID string) error {
	if !actor.Admin {
		return ErrForbidden
	}
	root, sec, err := s.locate(ctx, sectionID)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			s.logger.Warn("delete in unknown section", zap.String("section_id", sectionID), zap.String("user", actor.Email))
		}
		return err
	}
	i := sec.FindSubsection(subID)
	if i < 0 {
		s.logger.Warn("delete of stale subsection",
			zap.String("section_id", sectionID),
			zap.String("subsection_id", subID),
			zap.String("user", actor.Email))
		return ErrSubsectionNotFound
	}

	s.recorder.Deleted(ctx, actor.Email, sectionID, sec.Subsections[i])

	sec.Subsections = append(sec.Subsections[:i], sec.Subsections[i+1:]...)
	root.UpdatedBy = actor.Email
	return s.persist(ctx, *root)
}

func (s *Service) persist(ctx context.Context, root models.Section) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.logger, "save section")
	defer cancel()

	if err := s.store.Save(ctx, root); err != nil {
		return fmt.Errorf("save section %s: %w", root.ID, err)
	}
	return nil
}

// locate reads the stored tree for an edit and returns the top-level section
// to persist plus a pointer into it at sectionID. Unlike Sections it does not
// fall back to the catalog on a read error, so a failed read is never
// written back over stored content.
func (s *Service) locate(ctx context.Context, sectionID string) (*models.Section, *models.Section, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.logger, "load sections")
	defer cancel()

	stored, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load sections: %w", err)
	}
	tree := catalog.Merge(stored, catalog.Default())
	for i := range tree {
		if target, ok := catalog.Find(tree[i:i+1], sectionID); ok {
			return &tree[i], target, nil
		}
	}
	return nil, nil, ErrSectionNotFound
}
