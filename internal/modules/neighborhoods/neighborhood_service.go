package neighborhoods

import (
	"context"
	"errors"
	"fmt"

	"pizzeria-delivery/internal/models"
)

type ServiceInterface interface {
	List(ctx context.Context) ([]models.Neighborhood, error)
	Create(ctx context.Context, req models.CreateNeighborhoodRequest) (*models.Neighborhood, error)
	Update(ctx context.Context, neighborhoodID string, req models.UpdateNeighborhoodRequest) (*models.Neighborhood, error)
	Delete(ctx context.Context, neighborhoodID string) error
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]models.Neighborhood, error) {
	neighborhoods, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.List: %w", err)
	}
	return neighborhoods, nil
}

func (s *Service) Create(ctx context.Context, req models.CreateNeighborhoodRequest) (*models.Neighborhood, error) {
	if req.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("%w: delivery fee must not be negative", models.ErrValidation)
	}

	// Uniqueness is by normalized name so near-duplicate spellings collide.
	_, err := s.repo.FindByNormalizedName(ctx, req.Name)
	if err == nil {
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Create.FindByNormalizedName: %w", err)
	}

	n, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}
	return n, nil
}

func (s *Service) Update(ctx context.Context, neighborhoodID string, req models.UpdateNeighborhoodRequest) (*models.Neighborhood, error) {
	if req.DeliveryFee != nil && req.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("%w: delivery fee must not be negative", models.ErrValidation)
	}

	if req.Name != nil {
		existing, err := s.repo.FindByNormalizedName(ctx, *req.Name)
		if err == nil && existing.ID != neighborhoodID {
			return nil, models.ErrConflict
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service.Update.FindByNormalizedName: %w", err)
		}
	}

	n, err := s.repo.Update(ctx, neighborhoodID, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.Update: %w", err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, neighborhoodID string) error {
	if err := s.repo.Delete(ctx, neighborhoodID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service.Delete: %w", err)
	}
	return nil
}
