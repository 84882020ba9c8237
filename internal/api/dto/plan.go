package dto

import "load-planning-service/internal/domain"

type PlanRequest struct {
	Language         string  `json:"language"`
	TruckCapacityM3  float64 `json:"truck_capacity_m3"`
	SkipCarrierEmail bool    `json:"skip_carrier_email"`
}

type PlanResponse struct {
	RunID            string              `json:"run_id"`
	Plan             *domain.LoadingPlan `json:"plan"`
	Layout           domain.LoadLayout   `json:"layout"`
	CarrierEmail     string              `json:"carrier_email,omitempty"`
	SyntheticMatches int                 `json:"synthetic_matches"`
}

type LayoutRequest struct {
	Items           []domain.PlanItem `json:"items"`
	TruckCapacityM3 float64           `json:"truck_capacity_m3"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
