package services

import (
	"strings"
	"testing"

	"load-planning-service/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanRequestGroupsByCompany(t *testing.T) {
	companies := []domain.Company{
		{
			ID: "M1", CompanyName: "Gyarto Zrt", Role: domain.RoleManufacturer,
			Address: &domain.Address{Street: "Fo utca 1", ZipCode: "4000", City: "Debrecen", Country: "Hungary"},
		},
		{ID: "C1", CompanyName: "Vevo Kft", Role: domain.RoleCustomer},
	}
	matches := []domain.Match{
		realMatch("1", "C1", "M1", 3, false),
		realMatch("2", "C2", "M1", 0, false),
		realMatch("3", "C1", "M1", 1.234, false),
	}

	req := BuildPlanRequest(matches, companies, 0, "hu")

	assert.Equal(t, domain.DefaultTruckCapacityM3, req.CapacityM3)
	assert.Equal(t, "Hungarian", req.Language)

	require.Len(t, req.Pickups, 1)
	assert.Equal(t, "Gyarto Zrt", req.Pickups[0].CompanyName)
	assert.Equal(t, "Fo utca 1, 4000 Debrecen, Hungary", req.Pickups[0].Address)
	assert.Len(t, req.Pickups[0].Items, 3)

	require.Len(t, req.Dropoffs, 2)
	assert.Equal(t, "Vevo Kft", req.Dropoffs[0].CompanyName)
	assert.Equal(t, "Customer C2", req.Dropoffs[1].CompanyName)
	assert.Equal(t, domain.NotAvailable, req.Dropoffs[1].Address)

	want := []domain.PlanItemRef{
		{ProductName: "Acacia post", Quantity: 40, VolumeM3: "3.00", DemandID: "DEM-1"},
		{ProductName: "Acacia post", Quantity: 40, VolumeM3: "1.23", DemandID: "DEM-3"},
	}
	if diff := cmp.Diff(want, req.Dropoffs[0].Items); diff != "" {
		t.Fatalf("dropoff items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, domain.NotAvailable, req.Dropoffs[1].Items[0].VolumeM3)
}

func TestBuildPlanRequestUnknownCompanies(t *testing.T) {
	m := realMatch("1", "", "", 2, false)
	m.Demand.CompanyName = ""
	m.Stock.CompanyName = ""
	m.Demand.ProductName = ""

	req := BuildPlanRequest([]domain.Match{m}, nil, 30, "en")

	assert.Equal(t, "English", req.Language)
	assert.Equal(t, 30.0, req.CapacityM3)
	assert.Equal(t, "Unknown manufacturer", req.Pickups[0].CompanyName)
	assert.Equal(t, "Unknown customer", req.Dropoffs[0].CompanyName)
	assert.Equal(t, DefaultProductName, req.Dropoffs[0].Items[0].ProductName)
}

func TestRenderPlanPrompt(t *testing.T) {
	req := BuildPlanRequest([]domain.Match{realMatch("1", "C1", "M1", 3, false)}, nil, 25, "en")

	prompt, err := RenderPlanPrompt(req)
	require.NoError(t, err)

	assert.Contains(t, prompt, "25m³ truck in English")
	assert.Contains(t, prompt, `"companyName": "Manufacturer M1"`)
	assert.Contains(t, prompt, `"stockId": "STK-1"`)
	assert.Contains(t, prompt, `"demandId": "DEM-1"`)
	for _, field := range []string{"planDetails", "items", "capacityUsed", "waypoints", "optimizedRouteDescription"} {
		assert.Contains(t, prompt, `"`+field+`"`)
	}
	assert.True(t, strings.HasSuffix(prompt, "The JSON MUST be the ONLY content of your response."))
	assert.NotContains(t, prompt, "companyId\": \"C1")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hungarian", LanguageName("HU"))
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "English", LanguageName("de"))
	assert.Equal(t, "English", LanguageName(""))
}
