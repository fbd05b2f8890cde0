package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
)

// ContextService manages contexts and tags. Both are simple reference
// entities; deletion cascades through foreign keys onto goals and events.
type ContextService struct {
	contextRepo repository.ContextRepository
	tagRepo     repository.TagRepository
	now         func() time.Time
}

func NewContextService(contextRepo repository.ContextRepository, tagRepo repository.TagRepository, now func() time.Time) *ContextService {
	if now == nil {
		now = time.Now
	}
	return &ContextService{
		contextRepo: contextRepo,
		tagRepo:     tagRepo,
		now:         now,
	}
}

func (s *ContextService) CreateContext(userID, name string) (*model.Context, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	c := &model.Context{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}

	err := s.contextRepo.Create(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	return c, nil
}

func (s *ContextService) Contexts(userID string) ([]*model.Context, error) {
	return s.contextRepo.Contexts(userID)
}

func (s *ContextService) RenameContext(userID, contextID, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	return s.contextRepo.Rename(userID, contextID, name)
}

// DeleteContext hard-deletes the context and, via cascade, every goal and
// event inside it. This is the one path that bypasses goal archiving.
func (s *ContextService) DeleteContext(userID, contextID string) error {
	return s.contextRepo.Delete(userID, contextID)
}

func (s *ContextService) CreateTag(userID, name string) (*model.Tag, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	t := &model.Tag{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}

	err := s.tagRepo.Create(t)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return t, nil
}

func (s *ContextService) Tags(userID string) ([]*model.Tag, error) {
	return s.tagRepo.Tags(userID)
}

func (s *ContextService) DeleteTag(userID, tagID string) error {
	return s.tagRepo.Delete(userID, tagID)
}
