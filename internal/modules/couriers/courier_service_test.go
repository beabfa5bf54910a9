package couriers

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pizzeria-delivery/internal/models"
)

type fakeRepo struct {
	byName map[string]*models.Courier
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*models.Courier, error) {
	for _, c := range f.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) FindByName(_ context.Context, name string) (*models.Courier, error) {
	c, ok := f.byName[name]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeRepo) List(_ context.Context) ([]models.Courier, error) {
	out := []models.Courier{}
	for _, c := range f.byName {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, name, phone, passwordHash string) (*models.Courier, error) {
	c := &models.Courier{ID: uuid.NewString(), Name: name, Phone: phone, PasswordHash: passwordHash}
	f.byName[name] = c
	out := *c
	return &out, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, req models.UpdateCourierRequest, passwordHash *string) (*models.Courier, error) {
	for _, c := range f.byName {
		if c.ID == id {
			if req.Name != nil {
				c.Name = *req.Name
			}
			if passwordHash != nil {
				c.PasswordHash = *passwordHash
			}
			out := *c
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	for name, c := range f.byName {
		if c.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return models.ErrNotFound
}

const testSecret = "test-secret"

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T) (ServiceInterface, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{byName: map[string]*models.Courier{
		"Ana": {ID: uuid.NewString(), Name: "Ana", PasswordHash: mustHash(t, "segredo-da-ana")},
	}}
	svc := NewService(repo, testSecret, RestaurantCredentials{
		User:         "restaurante",
		PasswordHash: mustHash(t, "senha-do-balcao"),
	})
	return svc, repo
}

func parseClaims(t *testing.T, token string) *models.JwtCustomClaims {
	t.Helper()
	claims := &models.JwtCustomClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestLoginRestaurant(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Name: "restaurante", Password: "senha-do-balcao"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleRestaurant, resp.Role)
	assert.Nil(t, resp.Courier)

	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, models.RoleRestaurant, claims.Role)
}

func TestLoginCourier(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Name: "Ana", Password: "segredo-da-ana"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleCourier, resp.Role)
	require.NotNil(t, resp.Courier)
	assert.Empty(t, resp.Courier.PasswordHash)

	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, models.RoleCourier, claims.Role)
	assert.Equal(t, repo.byName["Ana"].ID, claims.SubjectID)
}

// Wrong password and unknown name must be indistinguishable.
func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestService(t)

	_, wrongPass := svc.Login(context.Background(), models.LoginRequest{Name: "Ana", Password: "errada"})
	_, unknown := svc.Login(context.Background(), models.LoginRequest{Name: "Zé", Password: "qualquer"})
	_, wrongRestaurant := svc.Login(context.Background(), models.LoginRequest{Name: "restaurante", Password: "errada"})

	assert.ErrorIs(t, wrongPass, models.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, models.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongRestaurant, models.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), models.CreateCourierRequest{Name: "Ana", Password: "outra"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCreateHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), models.CreateCourierRequest{Name: "Bruno", Password: "segredo"})
	require.NoError(t, err)

	assert.Empty(t, created.PasswordHash)
	stored := repo.byName["Bruno"]
	assert.NotEqual(t, "segredo", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("segredo")))
}

func TestUpdateCanRotatePassword(t *testing.T) {
	svc, repo := newTestService(t)
	id := repo.byName["Ana"].ID

	newPass := "novo-segredo"
	_, err := svc.Update(context.Background(), id, models.UpdateCourierRequest{Password: &newPass})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Name: "Ana", Password: "novo-segredo"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{Name: "Ana", Password: "segredo-da-ana"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
