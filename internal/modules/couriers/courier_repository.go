package couriers

import (
	"context"
	"errors"
	"fmt"

	"pizzeria-delivery/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines storage operations for couriers.
type RepositoryInterface interface {
	FindByID(ctx context.Context, courierID string) (*models.Courier, error)
	FindByName(ctx context.Context, name string) (*models.Courier, error)
	List(ctx context.Context) ([]models.Courier, error)
	Create(ctx context.Context, name, phone, passwordHash string) (*models.Courier, error)
	Update(ctx context.Context, courierID string, req models.UpdateCourierRequest, passwordHash *string) (*models.Courier, error)
	Delete(ctx context.Context, courierID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) scanCourier(row pgx.Row) (*models.Courier, error) {
	courier := &models.Courier{}
	err := row.Scan(
		&courier.ID, &courier.Name, &courier.Phone, &courier.PasswordHash,
		&courier.CreatedAt, &courier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan courier: %w", err)
	}
	return courier, nil
}

func (r *Repository) FindByID(ctx context.Context, courierID string) (*models.Courier, error) {
	query := `SELECT id, name, phone, password_hash, created_at, updated_at FROM couriers WHERE id = $1`
	courier, err := r.scanCourier(r.db.QueryRow(ctx, query, courierID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return courier, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Courier, error) {
	query := `SELECT id, name, phone, password_hash, created_at, updated_at FROM couriers WHERE lower(name) = lower($1)`
	courier, err := r.scanCourier(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByName: %w", err)
	}
	return courier, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Courier, error) {
	query := `SELECT id, name, phone, password_hash, created_at, updated_at FROM couriers ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.List: %w", err)
	}
	defer rows.Close()

	couriers := []models.Courier{}
	for rows.Next() {
		courier, err := r.scanCourier(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.List: %w", err)
		}
		couriers = append(couriers, *courier)
	}
	return couriers, rows.Err()
}

func (r *Repository) Create(ctx context.Context, name, phone, passwordHash string) (*models.Courier, error) {
	query := `
		INSERT INTO couriers (name, phone, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, phone, password_hash, created_at, updated_at`
	courier, err := r.scanCourier(r.db.QueryRow(ctx, query, name, phone, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return courier, nil
}

func (r *Repository) Update(ctx context.Context, courierID string, req models.UpdateCourierRequest, passwordHash *string) (*models.Courier, error) {
	query := `
		UPDATE couriers
		SET name = COALESCE($1, name),
		    phone = COALESCE($2, phone),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, phone, password_hash, created_at, updated_at`
	courier, err := r.scanCourier(r.db.QueryRow(ctx, query, req.Name, req.Phone, passwordHash, courierID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return courier, nil
}

func (r *Repository) Delete(ctx context.Context, courierID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM couriers WHERE id = $1`, courierID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
