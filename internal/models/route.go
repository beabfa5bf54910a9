package models

// PlanRouteRequest asks for an optimized visiting order over a set of
// delivery records.
type PlanRouteRequest struct {
	DeliveryIDs []string `json:"delivery_ids" validate:"required,min=1,dive,uuid4"`
}

// PlannedStop is one stop of the advised route, matched back to the
// delivery records headed there.
type PlannedStop struct {
	DeliveryIDs  []string `json:"delivery_ids"`
	Address      string   `json:"address"`
	LegKm        float64  `json:"leg_km"`
	DurationText string   `json:"duration_text"`
}

// PlanRouteResponse is the provider-advised route. Leg distances are
// persisted onto the matching delivery records as their round-trip km.
type PlanRouteResponse struct {
	Stops   []PlannedStop `json:"stops"`
	TotalKm float64       `json:"total_km"`
}
