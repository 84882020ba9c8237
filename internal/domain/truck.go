package domain

// DefaultTruckCapacityM3 is the nominal volume of the planned truck (approx. 24 t).
const DefaultTruckCapacityM3 = 25.0

// TruckBed describes the fixed canvas a load layout is drawn on.
// Cargo is laid out left (cab end) to right (door end).
type TruckBed struct {
	Width              float64
	Height             float64
	Padding            float64
	CapacityM3         float64
	ItemHeightFraction float64
}

func NewTruckBed(capacityM3 float64) TruckBed {
	if capacityM3 <= 0 {
		capacityM3 = DefaultTruckCapacityM3
	}
	return TruckBed{
		Width:              600,
		Height:             100,
		Padding:            5,
		CapacityM3:         capacityM3,
		ItemHeightFraction: 0.8,
	}
}

// Width available for cargo once the symmetric padding is removed.
func (t TruckBed) UsableWidth() float64 { return t.Width - 2*t.Padding }

func (t TruckBed) UsableHeight() float64 { return t.Height - 2*t.Padding }
