package domain

// PlacedItem is a cargo item positioned on the truck bed.
// X and Width are in canvas units; X + Width never exceeds
// UsableWidth + Padding + 1.
type PlacedItem struct {
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	DestinationName string  `json:"destinationName"`
	DropOffOrder    Ordinal `json:"dropOffOrder"`
	VolumeM3        float64 `json:"volumeM3"`
	X               float64 `json:"xOffset"`
	Y               float64 `json:"yOffset"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	HeightFraction  float64 `json:"heightFraction"`
	ColorKey        string  `json:"colorKey"`
	Label           string  `json:"label"`
	Title           string  `json:"title"`
}

// OverflowedItem is a cargo item that could not be placed.
type OverflowedItem struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	VolumeM3 float64 `json:"volumeM3"`
	Width    float64 `json:"width"`
	Reason   string  `json:"reason"`
}

type LegendEntry struct {
	DestinationName string `json:"destinationName"`
	ColorKey        string `json:"colorKey"`
}

// LoadLayout is the geometry-ready result of laying a plan out on a truck bed.
type LoadLayout struct {
	Placed            []PlacedItem     `json:"placed"`
	Overflowed        []OverflowedItem `json:"overflowed"`
	Legend            []LegendEntry    `json:"legend"`
	TotalLoadedVolume float64          `json:"totalLoadedVolume"`
	TruckCapacityM3   float64          `json:"truckCapacityM3"`
	UtilizationPct    float64          `json:"utilizationPct"`
	CanvasWidth       float64          `json:"canvasWidth"`
	CanvasHeight      float64          `json:"canvasHeight"`
}
