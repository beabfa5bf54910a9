package deliveries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-delivery/internal/mapping"
	"pizzeria-delivery/internal/models"
	"pizzeria-delivery/internal/modules/neighborhoods"
	"pizzeria-delivery/internal/shift"
)

// --- fakes ---

type fakeDeliveryRepo struct {
	records map[string]*models.Delivery
	order   []string
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{records: map[string]*models.Delivery{}}
}

func (f *fakeDeliveryRepo) Insert(_ context.Context, d *models.Delivery) (*models.Delivery, error) {
	saved := *d
	saved.ID = uuid.NewString()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	f.records[saved.ID] = &saved
	f.order = append(f.order, saved.ID)
	out := saved
	return &out, nil
}

func (f *fakeDeliveryRepo) FindByID(_ context.Context, id string) (*models.Delivery, error) {
	d, ok := f.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *d
	return &out, nil
}

func (f *fakeDeliveryRepo) ListRange(_ context.Context, start, end time.Time, courierID string) ([]models.Delivery, error) {
	out := []models.Delivery{}
	for _, id := range f.order {
		d := f.records[id]
		if d.CreatedAt.Before(start) || !d.CreatedAt.Before(end) {
			continue
		}
		if courierID != "" && courierID != "all" && d.CourierID != courierID {
			continue
		}
		out = append(out, *d)
	}
	shift.SortNewestFirst(out)
	return out, nil
}

func (f *fakeDeliveryRepo) Update(_ context.Context, id string, req models.UpdateDeliveryRequest) (*models.Delivery, error) {
	d, ok := f.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.OrderValue != nil {
		d.OrderValue = *req.OrderValue
	}
	if req.RoundTripKm != nil {
		d.RoundTripKm = req.RoundTripKm
	}
	out := *d
	return &out, nil
}

func (f *fakeDeliveryRepo) SetRoundTripKm(_ context.Context, id string, km float64) error {
	d, ok := f.records[id]
	if !ok {
		return models.ErrNotFound
	}
	d.RoundTripKm = &km
	return nil
}

func (f *fakeDeliveryRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeCourierRepo struct {
	couriers map[string]*models.Courier
}

func (f *fakeCourierRepo) FindByID(_ context.Context, id string) (*models.Courier, error) {
	c, ok := f.couriers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourierRepo) FindByName(_ context.Context, name string) (*models.Courier, error) {
	for _, c := range f.couriers {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeCourierRepo) List(_ context.Context) ([]models.Courier, error) { return nil, nil }
func (f *fakeCourierRepo) Create(_ context.Context, _, _, _ string) (*models.Courier, error) {
	return nil, models.ErrNotFound
}
func (f *fakeCourierRepo) Update(_ context.Context, _ string, _ models.UpdateCourierRequest, _ *string) (*models.Courier, error) {
	return nil, models.ErrNotFound
}
func (f *fakeCourierRepo) Delete(_ context.Context, _ string) error { return models.ErrNotFound }

type fakeNeighborhoodRepo struct {
	byName map[string]*models.Neighborhood
}

func (f *fakeNeighborhoodRepo) FindByNormalizedName(_ context.Context, name string) (*models.Neighborhood, error) {
	n, ok := f.byName[neighborhoods.NormalizeName(name)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return n, nil
}

func (f *fakeNeighborhoodRepo) List(_ context.Context) ([]models.Neighborhood, error) { return nil, nil }
func (f *fakeNeighborhoodRepo) FindByID(_ context.Context, _ string) (*models.Neighborhood, error) {
	return nil, models.ErrNotFound
}
func (f *fakeNeighborhoodRepo) Create(_ context.Context, _ models.CreateNeighborhoodRequest) (*models.Neighborhood, error) {
	return nil, models.ErrNotFound
}
func (f *fakeNeighborhoodRepo) Update(_ context.Context, _ string, _ models.UpdateNeighborhoodRequest) (*models.Neighborhood, error) {
	return nil, models.ErrNotFound
}
func (f *fakeNeighborhoodRepo) Delete(_ context.Context, _ string) error { return models.ErrNotFound }

// --- helpers ---

var (
	anaID = uuid.NewString()
)

func newTestService(repo *fakeDeliveryRepo, provider *mapping.MockProvider) ServiceInterface {
	courierRepo := &fakeCourierRepo{couriers: map[string]*models.Courier{
		anaID: {ID: anaID, Name: "Ana"},
	}}
	neighborhoodRepo := &fakeNeighborhoodRepo{byName: map[string]*models.Neighborhood{
		"centro": {ID: uuid.NewString(), Name: "Centro", DeliveryFee: decimal.RequireFromString("5.00")},
	}}
	return NewService(repo, courierRepo, neighborhoodRepo, provider, provider, shift.PolicyNightShift, time.UTC)
}

func centroProvider() *mapping.MockProvider {
	return &mapping.MockProvider{
		Origin: "Pizzeria HQ",
		Distances: map[string]float64{
			"Pizzeria HQ|Rua das Flores, 10": 3.2,
		},
		Durations: map[string]float64{
			"Pizzeria HQ|Rua das Flores, 10": 480,
		},
	}
}

// --- tests ---

func TestCreateResolvesFeeAndDistance(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := newTestService(repo, centroProvider())

	resp, err := svc.Create(context.Background(), models.CreateDeliveryRequest{
		CourierID:        anaID,
		Address:          "Rua das Flores, 10",
		NeighborhoodName: "Centro",
		PaymentType:      models.PaymentPix,
		OrderValue:       decimal.RequireFromString("42.00"),
		ClientRef:        "tmp-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "tmp-1", resp.ClientRef)
	assert.True(t, resp.DistanceResolved)
	d := resp.Delivery
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Ana", d.CourierName)
	assert.Equal(t, "Centro", d.NeighborhoodName)
	assert.True(t, d.DeliveryFee.Equal(decimal.RequireFromString("5.00")))
	require.NotNil(t, d.DistanceKm)
	require.NotNil(t, d.RoundTripKm)
	assert.Equal(t, 3.2, *d.DistanceKm)
	assert.Equal(t, 6.4, *d.RoundTripKm)
}

// Provider outage: the record is still persisted, distances stay null,
// and it still counts as a delivery.
func TestCreateSurvivesProviderFailure(t *testing.T) {
	repo := newFakeDeliveryRepo()
	provider := centroProvider()
	provider.Fail = true
	svc := newTestService(repo, provider)

	resp, err := svc.Create(context.Background(), models.CreateDeliveryRequest{
		CourierID:        anaID,
		Address:          "Rua das Flores, 10",
		NeighborhoodName: "Centro",
		PaymentType:      models.PaymentCash,
		OrderValue:       decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	assert.False(t, resp.DistanceResolved)
	assert.Nil(t, resp.Delivery.DistanceKm)
	assert.Nil(t, resp.Delivery.RoundTripKm)

	summary, _ := shift.Aggregate([]models.Delivery{*resp.Delivery})
	assert.Equal(t, 1, summary.TotalDeliveries)
	assert.Zero(t, summary.TotalKm)
}

func TestCreateRejectsUnknownNeighborhood(t *testing.T) {
	svc := newTestService(newFakeDeliveryRepo(), centroProvider())

	_, err := svc.Create(context.Background(), models.CreateDeliveryRequest{
		CourierID:        anaID,
		Address:          "Rua das Flores, 10",
		NeighborhoodName: "Vila Inexistente",
		PaymentType:      models.PaymentPix,
		OrderValue:       decimal.RequireFromString("42.00"),
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateRejectsNegativeOrderValue(t *testing.T) {
	svc := newTestService(newFakeDeliveryRepo(), centroProvider())

	_, err := svc.Create(context.Background(), models.CreateDeliveryRequest{
		CourierID:        anaID,
		Address:          "Rua das Flores, 10",
		NeighborhoodName: "Centro",
		PaymentType:      models.PaymentPix,
		OrderValue:       decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

// An empty date means "the current shift": at 01:00 the night shift of
// the previous calendar day is still open.
func TestListForDateDefaultsToCurrentShift(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := newTestService(repo, centroProvider())

	evening := &models.Delivery{
		CourierID: anaID, CourierName: "Ana",
		PaymentType: models.PaymentPix,
		OrderValue:  decimal.RequireFromString("40.00"),
		DeliveryFee: decimal.RequireFromString("5.00"),
		CreatedAt:   time.Date(2024, 1, 10, 22, 0, 0, 0, time.UTC),
	}
	_, err := repo.Insert(context.Background(), evening)
	require.NoError(t, err)

	now := time.Date(2024, 1, 11, 1, 0, 0, 0, time.UTC)
	records, window, err := svc.ListForDate(context.Background(), "", "all", now)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10", window.ReferenceDate.String())
	require.Len(t, records, 1)
}

func TestListForDateRejectsBadDate(t *testing.T) {
	svc := newTestService(newFakeDeliveryRepo(), centroProvider())
	_, _, err := svc.ListForDate(context.Background(), "10/01/2024", "all", time.Now())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDeleteAlreadyGone(t *testing.T) {
	svc := newTestService(newFakeDeliveryRepo(), centroProvider())
	err := svc.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPlanRoutePersistsLegDistances(t *testing.T) {
	repo := newFakeDeliveryRepo()
	provider := &mapping.MockProvider{
		Origin: "Pizzeria HQ",
		Distances: map[string]float64{
			"Pizzeria HQ|Rua A": 2.0,
			"Pizzeria HQ|Rua B": 5.0,
			"Rua A|Rua B":       1.0,
		},
		Durations: map[string]float64{
			"Pizzeria HQ|Rua A": 200,
			"Pizzeria HQ|Rua B": 500,
			"Rua A|Rua B":       100,
		},
	}
	svc := newTestService(repo, provider)

	mk := func(address string) string {
		resp, err := svc.Create(context.Background(), models.CreateDeliveryRequest{
			CourierID:        anaID,
			Address:          address,
			NeighborhoodName: "Centro",
			PaymentType:      models.PaymentCard,
			OrderValue:       decimal.RequireFromString("25.00"),
		})
		require.NoError(t, err)
		return resp.Delivery.ID
	}
	idA := mk("Rua A")
	idB := mk("Rua B")

	resp, err := svc.PlanRoute(context.Background(), models.PlanRouteRequest{
		DeliveryIDs: []string{idA, idB},
	})
	require.NoError(t, err)

	require.Len(t, resp.Stops, 2)
	assert.Equal(t, "Rua A", resp.Stops[0].Address)
	assert.Equal(t, 2.0, resp.Stops[0].LegKm)
	assert.Equal(t, "Rua B", resp.Stops[1].Address)
	assert.Equal(t, 1.0, resp.Stops[1].LegKm)
	assert.InDelta(t, 3.0, resp.TotalKm, 1e-9)

	// Leg distances replace the doubled one-way values on the records.
	a, err := repo.FindByID(context.Background(), idA)
	require.NoError(t, err)
	require.NotNil(t, a.RoundTripKm)
	assert.Equal(t, 2.0, *a.RoundTripKm)

	b, err := repo.FindByID(context.Background(), idB)
	require.NoError(t, err)
	require.NotNil(t, b.RoundTripKm)
	assert.Equal(t, 1.0, *b.RoundTripKm)
}
