package domain

import "testing"

func TestNewTruckBed(t *testing.T) {
	bed := NewTruckBed(0)

	if bed.CapacityM3 != DefaultTruckCapacityM3 {
		t.Fatalf("capacity = %v, want %v", bed.CapacityM3, DefaultTruckCapacityM3)
	}
	if bed.UsableWidth() != 590 {
		t.Fatalf("usable width = %v, want 590", bed.UsableWidth())
	}
	if bed.UsableHeight() != 90 {
		t.Fatalf("usable height = %v, want 90", bed.UsableHeight())
	}

	if got := NewTruckBed(40).CapacityM3; got != 40 {
		t.Fatalf("capacity = %v, want 40", got)
	}
}

func TestMatchAccessors(t *testing.T) {
	m := Match{
		Demand: DemandItem{ProductName: "Demand post", CompanyID: "CUST-1", CompanyName: "Vevo Kft", VolumeM3: 3},
		Stock:  StockItem{CompanyID: "MAN-1", CompanyName: "Gyarto Zrt"},
	}

	if m.PickupCompanyID() != "MAN-1" || m.DropoffCompanyID() != "CUST-1" {
		t.Fatalf("pickup/dropoff = %q/%q", m.PickupCompanyID(), m.DropoffCompanyID())
	}
	if m.ItemName() != "Demand post" {
		t.Fatalf("item name = %q", m.ItemName())
	}
	if m.VolumeM3() != 3 {
		t.Fatalf("volume = %v, want 3", m.VolumeM3())
	}
}
