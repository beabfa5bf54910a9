package deliveries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria-delivery/internal/mapping"
	"pizzeria-delivery/internal/models"
	"pizzeria-delivery/internal/modules/couriers"
	"pizzeria-delivery/internal/modules/neighborhoods"
	"pizzeria-delivery/internal/shift"
)

// distanceLookupTimeout caps how long record creation waits on the
// mapping provider before saving the record with degraded data.
const distanceLookupTimeout = 8 * time.Second

type ServiceInterface interface {
	Create(ctx context.Context, req models.CreateDeliveryRequest) (*models.CreateDeliveryResponse, error)
	// ListForDate returns the records of one reporting date under the
	// configured shift policy. An empty date means the current shift.
	ListForDate(ctx context.Context, date, courierID string, now time.Time) ([]models.Delivery, shift.Window, error)
	Update(ctx context.Context, deliveryID string, req models.UpdateDeliveryRequest) (*models.Delivery, error)
	Delete(ctx context.Context, deliveryID string) error
	PlanRoute(ctx context.Context, req models.PlanRouteRequest) (*models.PlanRouteResponse, error)
}

type Service struct {
	repo          RepositoryInterface
	courierRepo   couriers.RepositoryInterface
	neighborhoods neighborhoods.RepositoryInterface
	distances     mapping.DistanceProvider
	optimizer     mapping.RouteOptimizer
	policy        shift.Policy
	loc           *time.Location
}

func NewService(
	repo RepositoryInterface,
	courierRepo couriers.RepositoryInterface,
	neighborhoodRepo neighborhoods.RepositoryInterface,
	distances mapping.DistanceProvider,
	optimizer mapping.RouteOptimizer,
	policy shift.Policy,
	loc *time.Location,
) ServiceInterface {
	return &Service{
		repo:          repo,
		courierRepo:   courierRepo,
		neighborhoods: neighborhoodRepo,
		distances:     distances,
		optimizer:     optimizer,
		policy:        policy,
		loc:           loc,
	}
}

// Create validates the record, resolves the delivery fee from the
// neighborhood's current configuration, then persists. The distance
// lookup is best-effort: a provider failure leaves the distance fields
// null and never blocks the courier's work from being saved.
func (s *Service) Create(ctx context.Context, req models.CreateDeliveryRequest) (*models.CreateDeliveryResponse, error) {
	if req.OrderValue.IsNegative() {
		return nil, fmt.Errorf("%w: order value must not be negative", models.ErrValidation)
	}

	courier, err := s.courierRepo.FindByID(ctx, req.CourierID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: courier does not exist", models.ErrValidation)
		}
		return nil, fmt.Errorf("service.Create.FindCourier: %w", err)
	}

	neighborhood, err := s.neighborhoods.FindByNormalizedName(ctx, req.NeighborhoodName)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown neighborhood %q", models.ErrValidation, req.NeighborhoodName)
		}
		return nil, fmt.Errorf("service.Create.FindNeighborhood: %w", err)
	}

	d := &models.Delivery{
		CourierID:        courier.ID,
		CourierName:      courier.Name,
		Address:          req.Address,
		NeighborhoodName: neighborhood.Name,
		PaymentType:      req.PaymentType,
		OrderValue:       req.OrderValue,
		DeliveryFee:      neighborhood.DeliveryFee,
	}

	distanceResolved := false
	if s.distances != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, distanceLookupTimeout)
		result, err := s.distances.Distance(lookupCtx, req.Address)
		cancel()
		if err == nil {
			d.DistanceKm = &result.DistanceKm
			d.RoundTripKm = &result.RoundTripKm
			distanceResolved = true
		}
		// A failed lookup is logged upstream and otherwise ignored.
	}

	saved, err := s.repo.Insert(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}

	return &models.CreateDeliveryResponse{
		Delivery:         saved,
		ClientRef:        req.ClientRef,
		DistanceResolved: distanceResolved,
	}, nil
}

func (s *Service) ListForDate(ctx context.Context, date, courierID string, now time.Time) ([]models.Delivery, shift.Window, error) {
	var d shift.Date
	if date == "" {
		// The current shift: classify "now" so early-morning requests
		// still land on yesterday's reporting date under grace policies.
		d = shift.Classify(now.In(s.loc), s.policy)
	} else {
		var err error
		d, err = shift.ParseDate(date)
		if err != nil {
			return nil, shift.Window{}, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
	}

	w := shift.Resolve(d, s.policy, s.loc)
	records, err := s.repo.ListRange(ctx, w.Start, w.End, courierID)
	if err != nil {
		return nil, w, fmt.Errorf("service.ListForDate: %w", err)
	}
	return records, w, nil
}

func (s *Service) Update(ctx context.Context, deliveryID string, req models.UpdateDeliveryRequest) (*models.Delivery, error) {
	if req.OrderValue != nil && req.OrderValue.IsNegative() {
		return nil, fmt.Errorf("%w: order value must not be negative", models.ErrValidation)
	}
	if req.DeliveryFee != nil && req.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("%w: delivery fee must not be negative", models.ErrValidation)
	}

	d, err := s.repo.Update(ctx, deliveryID, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.Update: %w", err)
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, deliveryID string) error {
	if err := s.repo.Delete(ctx, deliveryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service.Delete: %w", err)
	}
	return nil
}

// PlanRoute asks the provider for an optimized visiting order over the
// given deliveries and persists each stop's leg distance as that
// record's round-trip km, replacing the naive doubled one-way value.
func (s *Service) PlanRoute(ctx context.Context, req models.PlanRouteRequest) (*models.PlanRouteResponse, error) {
	if s.optimizer == nil {
		return nil, fmt.Errorf("%w: route planning is not configured", models.ErrValidation)
	}

	// Group deliveries by address; one stop can serve several records.
	addresses := make([]string, 0, len(req.DeliveryIDs))
	byAddress := make(map[string][]string)
	for _, id := range req.DeliveryIDs {
		d, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: delivery %s does not exist", models.ErrValidation, id)
			}
			return nil, fmt.Errorf("service.PlanRoute: %w", err)
		}
		if _, seen := byAddress[d.Address]; !seen {
			addresses = append(addresses, d.Address)
		}
		byAddress[d.Address] = append(byAddress[d.Address], d.ID)
	}

	route, err := s.optimizer.OptimizeRoute(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("service.PlanRoute: %w", err)
	}

	resp := &models.PlanRouteResponse{
		Stops:   make([]models.PlannedStop, 0, len(route.Legs)),
		TotalKm: route.TotalDistanceKm,
	}
	for i, leg := range route.Legs {
		address := addresses[route.Order[i]]
		ids := byAddress[address]
		for _, id := range ids {
			if err := s.repo.SetRoundTripKm(ctx, id, leg.DistanceKm); err != nil && !errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("service.PlanRoute: %w", err)
			}
		}
		resp.Stops = append(resp.Stops, models.PlannedStop{
			DeliveryIDs:  ids,
			Address:      address,
			LegKm:        leg.DistanceKm,
			DurationText: leg.DurationText,
		})
	}
	return resp, nil
}
