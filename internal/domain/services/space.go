package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// SpaceService creates spaces together with their default branch.
type SpaceService struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewSpaceService creates a new SpaceService. A nil publisher discards events.
func NewSpaceService(store ports.Store, publisher ports.EventPublisher, logger *slog.Logger) *SpaceService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SpaceService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a space and its default branch in one transaction.
func (s *SpaceService) Create(ctx context.Context, projectID, name, actorID string) (*entities.Space, error) {
	projectID = strings.TrimSpace(projectID)
	name = strings.TrimSpace(name)
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", entities.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: space name is required", entities.ErrInvalidInput)
	}

	now := timeNow()
	space := &entities.Space{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
	}
	branch := &entities.Branch{
		ID:        uuid.New().String(),
		SpaceID:   space.ID,
		Name:      entities.DefaultBranchName,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.WithTx(ctx, func(tx ports.Tx) error {
		if err := tx.CreateSpace(ctx, space); err != nil {
			return fmt.Errorf("creating space: %w", err)
		}
		if err := tx.CreateBranch(ctx, branch); err != nil {
			return fmt.Errorf("creating default branch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, entities.SpaceCreated{
		Space:         *space,
		DefaultBranch: *branch,
		ActorID:       actorID,
		OccurredAt:    now,
	})
	s.logger.InfoContext(ctx, "created space", "space", space.ID, "name", space.Name)

	return space, nil
}

// Get returns a space by ID.
func (s *SpaceService) Get(ctx context.Context, spaceID string) (*entities.Space, error) {
	return requireSpace(ctx, s.store, spaceID)
}

// DefaultBranch returns the default branch of a space.
func (s *SpaceService) DefaultBranch(ctx context.Context, spaceID string) (*entities.Branch, error) {
	branches, err := s.ListBranches(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	for i := range branches {
		if branches[i].IsDefault {
			return &branches[i], nil
		}
	}
	return nil, fmt.Errorf("default branch of space %s: %w", spaceID, entities.ErrNotFound)
}

// ListBranches returns the branches of a space, oldest first.
func (s *SpaceService) ListBranches(ctx context.Context, spaceID string) ([]entities.Branch, error) {
	if _, err := requireSpace(ctx, s.store, spaceID); err != nil {
		return nil, err
	}
	branches, err := s.store.ListBranches(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	return branches, nil
}
