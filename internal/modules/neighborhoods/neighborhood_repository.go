package neighborhoods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizzeria-delivery/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryInterface interface {
	List(ctx context.Context) ([]models.Neighborhood, error)
	FindByID(ctx context.Context, neighborhoodID string) (*models.Neighborhood, error)
	FindByNormalizedName(ctx context.Context, name string) (*models.Neighborhood, error)
	Create(ctx context.Context, req models.CreateNeighborhoodRequest) (*models.Neighborhood, error)
	Update(ctx context.Context, neighborhoodID string, req models.UpdateNeighborhoodRequest) (*models.Neighborhood, error)
	Delete(ctx context.Context, neighborhoodID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// NormalizeName folds case and collapses whitespace so "Jardim  américa"
// and "Jardim América" compare equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (r *Repository) scan(row pgx.Row) (*models.Neighborhood, error) {
	n := &models.Neighborhood{}
	err := row.Scan(&n.ID, &n.Name, &n.DeliveryFee, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan neighborhood: %w", err)
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Neighborhood, error) {
	query := `SELECT id, name, delivery_fee, created_at, updated_at FROM neighborhoods ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.List: %w", err)
	}
	defer rows.Close()

	neighborhoods := []models.Neighborhood{}
	for rows.Next() {
		n, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.List: %w", err)
		}
		neighborhoods = append(neighborhoods, *n)
	}
	return neighborhoods, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, neighborhoodID string) (*models.Neighborhood, error) {
	query := `SELECT id, name, delivery_fee, created_at, updated_at FROM neighborhoods WHERE id = $1`
	n, err := r.scan(r.db.QueryRow(ctx, query, neighborhoodID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return n, nil
}

func (r *Repository) FindByNormalizedName(ctx context.Context, name string) (*models.Neighborhood, error) {
	query := `
		SELECT id, name, delivery_fee, created_at, updated_at
		FROM neighborhoods
		WHERE lower(regexp_replace(name, '\s+', ' ', 'g')) = $1`
	n, err := r.scan(r.db.QueryRow(ctx, query, NormalizeName(name)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByNormalizedName: %w", err)
	}
	return n, nil
}

func (r *Repository) Create(ctx context.Context, req models.CreateNeighborhoodRequest) (*models.Neighborhood, error) {
	query := `
		INSERT INTO neighborhoods (name, delivery_fee)
		VALUES ($1, $2)
		RETURNING id, name, delivery_fee, created_at, updated_at`
	n, err := r.scan(r.db.QueryRow(ctx, query, req.Name, req.DeliveryFee))
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return n, nil
}

func (r *Repository) Update(ctx context.Context, neighborhoodID string, req models.UpdateNeighborhoodRequest) (*models.Neighborhood, error) {
	query := `
		UPDATE neighborhoods
		SET name = COALESCE($1, name),
		    delivery_fee = COALESCE($2, delivery_fee),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, delivery_fee, created_at, updated_at`
	n, err := r.scan(r.db.QueryRow(ctx, query, req.Name, req.DeliveryFee, neighborhoodID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return n, nil
}

func (r *Repository) Delete(ctx context.Context, neighborhoodID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM neighborhoods WHERE id = $1`, neighborhoodID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
