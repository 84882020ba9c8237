package domain

// PlanItemRef is a cargo line attached to a pickup or drop-off point.
type PlanItemRef struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	VolumeM3    string `json:"volumeM3"`
	StockID     string `json:"stockId,omitempty"`
	DemandID    string `json:"demandId,omitempty"`
}

// PlanPoint groups the cargo picked up from, or dropped at, one company.
type PlanPoint struct {
	CompanyID   string        `json:"-"`
	CompanyName string        `json:"companyName"`
	Address     string        `json:"address"`
	Items       []PlanItemRef `json:"items"`
}

// PlanRequest is the structured input of one planning run.
// It is built fresh per run and never persisted.
type PlanRequest struct {
	Pickups    []PlanPoint `json:"pickupPoints"`
	Dropoffs   []PlanPoint `json:"dropoffPoints"`
	CapacityM3 float64     `json:"capacityM3"`
	Language   string      `json:"language"`
}
