package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"load-planning-service/internal/domain"
)

const (
	unknownManufacturer = "Unknown manufacturer"
	unknownCustomer     = "Unknown customer"
)

// LanguageName maps a locale to the language the oracle should answer in.
func LanguageName(locale string) string {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "hu", "hu-hu", "hungarian":
		return "Hungarian"
	default:
		return "English"
	}
}

// BuildPlanRequest groups the matches into one pickup point per manufacturer
// and one drop-off point per customer, in first-appearance order.
//
// Companies are resolved against the directory by the ids on the stock and
// demand records; when a company is not on file, the name embedded in the
// record is used instead.
func BuildPlanRequest(
	matches []domain.Match,
	companies []domain.Company,
	capacityM3 float64,
	locale string,
) domain.PlanRequest {
	if capacityM3 <= 0 {
		capacityM3 = domain.DefaultTruckCapacityM3
	}

	directory := make(map[string]domain.Company, len(companies))
	for _, c := range companies {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		directory[c.ID] = c
	}

	pickups := newPointGrouper()
	dropoffs := newPointGrouper()

	for _, m := range matches {
		pc, pok := directory[m.PickupCompanyID()]
		pickup := pickups.point(resolvePoint(pc, pok, m.PickupCompanyID(), m.PickupCompanyName(), unknownManufacturer))
		pickup.Items = append(pickup.Items, domain.PlanItemRef{
			ProductName: productName(m.Stock.ProductName),
			Quantity:    m.Stock.Quantity,
			VolumeM3:    formatVolume(m.Stock.VolumeM3),
			StockID:     m.StockID,
		})

		dc, dok := directory[m.DropoffCompanyID()]
		dropoff := dropoffs.point(resolvePoint(dc, dok, m.DropoffCompanyID(), m.DropoffCompanyName(), unknownCustomer))
		dropoff.Items = append(dropoff.Items, domain.PlanItemRef{
			ProductName: productName(m.Demand.ProductName),
			Quantity:    m.Demand.Quantity,
			VolumeM3:    formatVolume(m.Demand.VolumeM3),
			DemandID:    m.DemandID,
		})
	}

	return domain.PlanRequest{
		Pickups:    pickups.points(),
		Dropoffs:   dropoffs.points(),
		CapacityM3: capacityM3,
		Language:   LanguageName(locale),
	}
}

func resolvePoint(c domain.Company, found bool, id, embeddedName, unknown string) domain.PlanPoint {
	if found {
		name := strings.TrimSpace(c.CompanyName)
		if name == "" {
			name = firstNonEmpty(embeddedName, unknown)
		}
		return domain.PlanPoint{CompanyID: c.ID, CompanyName: name, Address: c.AddressLine()}
	}
	return domain.PlanPoint{
		CompanyID:   strings.TrimSpace(id),
		CompanyName: firstNonEmpty(embeddedName, unknown),
		Address:     domain.NotAvailable,
	}
}

// pointGrouper keeps one PlanPoint per company in first-seen order.
type pointGrouper struct {
	order []string
	byKey map[string]*domain.PlanPoint
}

func newPointGrouper() *pointGrouper {
	return &pointGrouper{byKey: make(map[string]*domain.PlanPoint)}
}

func (g *pointGrouper) point(p domain.PlanPoint) *domain.PlanPoint {
	key := "name:" + p.CompanyName
	if p.CompanyID != "" {
		key = "id:" + p.CompanyID
	}

	if existing, ok := g.byKey[key]; ok {
		return existing
	}

	p.Items = []domain.PlanItemRef{}
	g.byKey[key] = &p
	g.order = append(g.order, key)
	return &p
}

func (g *pointGrouper) points() []domain.PlanPoint {
	out := make([]domain.PlanPoint, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, *g.byKey[k])
	}
	return out
}

func productName(s string) string {
	return firstNonEmpty(s, DefaultProductName)
}

func formatVolume(v float64) string {
	if v <= 0 {
		return domain.NotAvailable
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// RenderPlanPrompt serializes the request into the oracle's prompt contract.
// The oracle must answer with a single JSON object.
func RenderPlanPrompt(req domain.PlanRequest) (string, error) {
	pickups, err := json.MarshalIndent(req.Pickups, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render plan prompt: marshal pickup points: %w", err)
	}

	dropoffs, err := json.MarshalIndent(req.Dropoffs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render plan prompt: marshal dropoff points: %w", err)
	}

	lang := req.Language
	if lang == "" {
		lang = LanguageName("")
	}
	capacity := strconv.FormatFloat(req.CapacityM3, 'f', -1, 64)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a logistics planner. Create an optimal loading and transport plan for a %sm³ truck in %s.\n", capacity, lang)
	b.WriteString("The transport consolidates items for multiple customers, picked up from multiple manufacturers.\n")
	fmt.Fprintf(&b, "Products are timber, primarily %s.\n\n", DefaultProductName)
	fmt.Fprintf(&b, "Pickup locations and items:\n%s\n\n", pickups)
	fmt.Fprintf(&b, "Drop-off locations and items:\n%s\n\n", dropoffs)
	fmt.Fprintf(&b, "The response MUST be a valid JSON object in %s with fields: ", lang)
	b.WriteString(`"planDetails" (string summary), `)
	b.WriteString(`"items" (array of objects: name, volumeM3, destinationName, dropOffOrder, loadingSuggestion, quality, notesOnItem, demandId, stockId, companyId), `)
	b.WriteString(`"capacityUsed" (string percentage), `)
	b.WriteString(`"waypoints" (array of objects: name, type ('pickup'|'dropoff'), order), `)
	b.WriteString(`"optimizedRouteDescription" (string).` + "\n")
	b.WriteString("Ensure 'items' and 'waypoints' are arrays and every element is a valid object.\n")
	fmt.Fprintf(&b, `Example 'items' element: { "name": "%s - for Customer Example Kft, 100 pcs", "volumeM3": "8", "destinationName": "Customer Example Kft", "dropOffOrder": 1, "loadingSuggestion": "Load towards the door, first drop-off.", "quality": "Prime A/B", "notesOnItem": "Demand DEM-123, stock STK-456", "demandId": "DEM-123", "stockId": "STK-456", "companyId": "CUST-1" }`+"\n", DefaultProductName)
	b.WriteString(`Example 'waypoints' element: { "name": "Manufacturer Example Zrt - Pickup", "type": "pickup", "order": 0 }` + "\n")
	b.WriteString("The JSON MUST be the ONLY content of your response.")

	return b.String(), nil
}
