package couriers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria-delivery/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface defines courier business logic: identity verification
// and the CRUD the restaurant dashboard uses.
type ServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	List(ctx context.Context) ([]models.Courier, error)
	Create(ctx context.Context, req models.CreateCourierRequest) (*models.Courier, error)
	Update(ctx context.Context, courierID string, req models.UpdateCourierRequest) (*models.Courier, error)
	Delete(ctx context.Context, courierID string) error
}

// RestaurantCredentials identify the single restaurant operator account.
// The hash is configured at deploy time; couriers live in the database.
type RestaurantCredentials struct {
	User         string
	PasswordHash string
}

type Service struct {
	repo       RepositoryInterface
	jwtSecret  string
	restaurant RestaurantCredentials
}

func NewService(repo RepositoryInterface, jwtSecret string, restaurant RestaurantCredentials) ServiceInterface {
	return &Service{
		repo:       repo,
		jwtSecret:  jwtSecret,
		restaurant: restaurant,
	}
}

func (s *Service) signToken(subjectID, name, role string) (string, error) {
	claims := &models.JwtCustomClaims{
		SubjectID: subjectID,
		Name:      name,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(14 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Login verifies credentials against a salted hash, never a plaintext
// comparison. The restaurant operator is matched first; anything else is
// looked up as a courier. Both failure paths return the same error so a
// caller cannot probe for existing names.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if s.restaurant.User != "" && req.Name == s.restaurant.User {
		if err := bcrypt.CompareHashAndPassword([]byte(s.restaurant.PasswordHash), []byte(req.Password)); err != nil {
			return nil, models.ErrInvalidCredentials
		}
		token, err := s.signToken(s.restaurant.User, s.restaurant.User, models.RoleRestaurant)
		if err != nil {
			return nil, fmt.Errorf("service.Login: %w", err)
		}
		return &models.AuthResponse{AccessToken: token, Role: models.RoleRestaurant}, nil
	}

	courier, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(courier.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.signToken(courier.ID, courier.Name, models.RoleCourier)
	if err != nil {
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	courier.PasswordHash = ""
	return &models.AuthResponse{AccessToken: token, Role: models.RoleCourier, Courier: courier}, nil
}

func (s *Service) List(ctx context.Context) ([]models.Courier, error) {
	couriers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.List: %w", err)
	}
	for i := range couriers {
		couriers[i].PasswordHash = ""
	}
	return couriers, nil
}

func (s *Service) Create(ctx context.Context, req models.CreateCourierRequest) (*models.Courier, error) {
	// Names double as login identifiers, so they must be unique.
	_, err := s.repo.FindByName(ctx, req.Name)
	if err == nil {
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Create.FindByName: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Create.HashPassword: %w", err)
	}

	courier, err := s.repo.Create(ctx, req.Name, req.Phone, string(hash))
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}
	courier.PasswordHash = ""
	return courier, nil
}

func (s *Service) Update(ctx context.Context, courierID string, req models.UpdateCourierRequest) (*models.Courier, error) {
	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("service.Update.HashPassword: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	courier, err := s.repo.Update(ctx, courierID, req, passwordHash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.Update: %w", err)
	}
	courier.PasswordHash = ""
	return courier, nil
}

func (s *Service) Delete(ctx context.Context, courierID string) error {
	if err := s.repo.Delete(ctx, courierID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service.Delete: %w", err)
	}
	return nil
}
