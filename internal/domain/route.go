package domain

import "encoding/json"

type WaypointKind string

const (
	WaypointPickup  WaypointKind = "pickup"
	WaypointDropoff WaypointKind = "dropoff"
)

// Represents a single pickup or drop-off stop of a planned route.
// Order defines the traversal sequence within its kind.
type Waypoint struct {
	Name  string       `json:"name"`
	Kind  WaypointKind `json:"type"`
	Order Ordinal      `json:"order"`
}

func (w *Waypoint) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name  LooseString `json:"name"`
		Kind  LooseString `json:"type"`
		Order Ordinal     `json:"order"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*w = Waypoint{Name: raw.Name.String(), Kind: WaypointKind(raw.Kind), Order: raw.Order}
	return nil
}
