package domain

import (
	"encoding/json"
	"testing"
)

func TestPlanItemDecodesLooseFields(t *testing.T) {
	raw := `{"name":"Posts","volumeM3":8.5,"destinationName":"Acme","dropOffOrder":"2","demandId":123}`

	var item PlanItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.VolumeM3 != "8.5" {
		t.Errorf("volume = %q, want 8.5", item.VolumeM3)
	}
	if !item.DropOffOrder.Valid || item.DropOffOrder.Value != 2 {
		t.Errorf("drop-off order = %+v, want 2", item.DropOffOrder)
	}
	if item.DemandID != "123" {
		t.Errorf("demand id = %q, want 123", item.DemandID)
	}
}

func TestOrdinalMissingOrInvalid(t *testing.T) {
	for _, raw := range []string{
		`{"name":"a"}`,
		`{"name":"a","dropOffOrder":null}`,
		`{"name":"a","dropOffOrder":"first"}`,
		`{"name":"a","dropOffOrder":{}}`,
	} {
		var item PlanItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if item.DropOffOrder.Valid {
			t.Errorf("%s: drop-off order should be unset, got %+v", raw, item.DropOffOrder)
		}
	}
}

func TestOrdinalMarshal(t *testing.T) {
	b, err := json.Marshal([]Ordinal{OrdinalOf(3), {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "[3,null]" {
		t.Fatalf("marshal = %s, want [3,null]", b)
	}
}

func TestAddressLine(t *testing.T) {
	c := Company{ID: "C1", Address: &Address{Street: "Fo utca 1", ZipCode: "1011", City: "Budapest", Country: "Hungary"}}
	if got := c.AddressLine(); got != "Fo utca 1, 1011 Budapest, Hungary" {
		t.Errorf("address = %q", got)
	}

	c.Address = &Address{City: "Debrecen"}
	if got := c.AddressLine(); got != "N/A, Debrecen, N/A" {
		t.Errorf("address = %q", got)
	}

	c.Address = nil
	if got := c.AddressLine(); got != NotAvailable {
		t.Errorf("address = %q, want %q", got, NotAvailable)
	}
}

func TestWaypointAndItemTolerateNonStringText(t *testing.T) {
	var wp Waypoint
	if err := json.Unmarshal([]byte(`{"name":7,"type":true,"order":1e12}`), &wp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wp.Name != "7" || wp.Kind != "" || wp.Order.Valid {
		t.Errorf("waypoint = %+v, want name 7 with no type or order", wp)
	}

	var item PlanItem
	if err := json.Unmarshal([]byte(`{"name":"Post","quality":1,"notesOnItem":[1],"destinationName":null}`), &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quality != "1" || item.NotesOnItem != "" || item.DestinationName != "" {
		t.Errorf("item = %+v", item)
	}
}
