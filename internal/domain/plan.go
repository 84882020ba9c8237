package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LooseString decodes a JSON string or number into text. Null, booleans,
// objects and arrays decode as absent. Oracle output is not consistent about
// quoting or typing free-text fields.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*s = ""
	if len(b) == 0 {
		return nil
	}

	switch {
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("loose string: %w", err)
		}
		*s = LooseString(v)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("loose string: %w", err)
		}
		*s = LooseString(n.String())
	}
	return nil
}

func (s LooseString) String() string { return string(s) }

// Positions beyond this are treated as missing.
const maxOrdinal = math.MaxInt32

// Ordinal is an optional integer position such as a drop-off order.
// Valid is false when the field was absent, null, not numeric or out of range.
type Ordinal struct {
	Value int
	Valid bool
}

func OrdinalOf(v int) Ordinal { return Ordinal{Value: v, Valid: true} }

func (o *Ordinal) UnmarshalJSON(b []byte) error {
	var raw LooseString
	if err := raw.UnmarshalJSON(b); err != nil {
		*o = Ordinal{}
		return nil
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		*o = Ordinal{}
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxOrdinal {
		*o = Ordinal{}
		return nil
	}

	*o = Ordinal{Value: int(math.Round(f)), Valid: true}
	return nil
}

func (o Ordinal) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}

// PlanItem is one cargo line of an oracle-proposed loading plan.
type PlanItem struct {
	Name              string      `json:"name"`
	VolumeM3          LooseString `json:"volumeM3"`
	DestinationName   string      `json:"destinationName"`
	DropOffOrder      Ordinal     `json:"dropOffOrder"`
	LoadingSuggestion string      `json:"loadingSuggestion,omitempty"`
	Quality           string      `json:"quality,omitempty"`
	NotesOnItem       string      `json:"notesOnItem,omitempty"`
	DemandID          LooseString `json:"demandId,omitempty"`
	StockID           LooseString `json:"stockId,omitempty"`
	CompanyID         LooseString `json:"companyId,omitempty"`
}

func (it *PlanItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name              LooseString `json:"name"`
		VolumeM3          LooseString `json:"volumeM3"`
		DestinationName   LooseString `json:"destinationName"`
		DropOffOrder      Ordinal     `json:"dropOffOrder"`
		LoadingSuggestion LooseString `json:"loadingSuggestion"`
		Quality           LooseString `json:"quality"`
		NotesOnItem       LooseString `json:"notesOnItem"`
		DemandID          LooseString `json:"demandId"`
		StockID           LooseString `json:"stockId"`
		CompanyID         LooseString `json:"companyId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*it = PlanItem{
		Name:              raw.Name.String(),
		VolumeM3:          raw.VolumeM3,
		DestinationName:   raw.DestinationName.String(),
		DropOffOrder:      raw.DropOffOrder,
		LoadingSuggestion: raw.LoadingSuggestion.String(),
		Quality:           raw.Quality.String(),
		NotesOnItem:       raw.NotesOnItem.String(),
		DemandID:          raw.DemandID,
		StockID:           raw.StockID,
		CompanyID:         raw.CompanyID,
	}
	return nil
}

// LoadingPlan is a validated oracle response. Items and Waypoints are always
// non-nil on an accepted plan; the plan is not modified after acceptance.
type LoadingPlan struct {
	ID                        string      `json:"id"`
	PlanDetails               string      `json:"planDetails"`
	Items                     []PlanItem  `json:"items"`
	CapacityUsed              LooseString `json:"capacityUsed"`
	Waypoints                 []Waypoint  `json:"waypoints"`
	OptimizedRouteDescription string      `json:"optimizedRouteDescription"`
}
