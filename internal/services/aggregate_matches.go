package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"load-planning-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// Below this many unbilled matches, placeholders are added.
	minMatchesForPlanning = 2
	// Placeholders are added until this many matches exist.
	syntheticMatchTarget = 3

	SyntheticMatchPrefix  = "MOCK-CONF-"
	SyntheticDemandPrefix = "MOCK-DEM-"
	SyntheticStockPrefix  = "MOCK-STK-"

	DefaultProductName = "Acacia debarked, sanded post"

	syntheticCommissionRate = 0.05
)

// AggregatedMatches is the input set of one planning run.
type AggregatedMatches struct {
	Matches   []domain.Match
	Synthetic int
}

// AggregateMatches selects the unbilled matches and, when fewer than two
// exist, tops them up with synthetic placeholder matches until there are at
// least three. Placeholders use directory companies when available and
// built-in stand-ins otherwise.
//
// It fails with KindInsufficientData only when there are neither matches nor
// companies at all.
func AggregateMatches(
	matches []domain.Match,
	companies []domain.Company,
	rng *rand.Rand,
	now time.Time,
) (AggregatedMatches, error) {
	unbilled := domain.UnbilledMatches(matches)

	if len(unbilled) >= minMatchesForPlanning {
		return AggregatedMatches{Matches: unbilled}, nil
	}

	if len(matches) == 0 && len(companies) == 0 {
		return AggregatedMatches{}, newPlanError(
			KindInsufficientData, nil,
			"no confirmed matches and no companies to plan a shipment with",
		)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x9e3779b97f4a7c15))
	}

	var customers, manufacturers []domain.Company
	for _, c := range companies {
		switch c.Role {
		case domain.RoleCustomer:
			customers = append(customers, c)
		case domain.RoleManufacturer:
			manufacturers = append(manufacturers, c)
		}
	}

	need := syntheticMatchTarget - len(unbilled)
	zap.L().Info("too few unbilled matches, adding placeholders",
		zap.Int("unbilled", len(unbilled)),
		zap.Int("placeholders", need),
	)

	out := make([]domain.Match, 0, syntheticMatchTarget)
	out = append(out, unbilled...)
	for i := 0; i < need; i++ {
		out = append(out, syntheticMatch(i, pickCustomer(customers, i), pickManufacturer(manufacturers, i), rng, now))
	}

	return AggregatedMatches{Matches: out, Synthetic: need}, nil
}

func pickCustomer(customers []domain.Company, i int) domain.Company {
	if len(customers) > 0 {
		return customers[i%len(customers)]
	}
	return domain.Company{
		ID:          fmt.Sprintf("CUST-MOCK-%d", i+1),
		CompanyName: fmt.Sprintf("Customer %d Kft.", i+1),
		Role:        domain.RoleCustomer,
		Address:     &domain.Address{City: "Budapest", Country: "Hungary"},
	}
}

func pickManufacturer(manufacturers []domain.Company, i int) domain.Company {
	if len(manufacturers) > 0 {
		return manufacturers[i%len(manufacturers)]
	}
	return domain.Company{
		ID:          fmt.Sprintf("MAN-MOCK-%d", i+1),
		CompanyName: fmt.Sprintf("Manufacturer %d Zrt.", i+1),
		Role:        domain.RoleManufacturer,
		Address:     &domain.Address{City: "Debrecen", Country: "Hungary"},
	}
}

// syntheticMatch draws dimensions in the ranges seen in real timber orders:
// 20-100 pcs, 2.0-4.0 m, diameter 10-20 cm widening by 2-6 cm.
func syntheticMatch(i int, customer, manufacturer domain.Company, rng *rand.Rand, now time.Time) domain.Match {
	stamp := now.UnixMilli()

	quantity := rng.IntN(81) + 20
	length := domain.RoundTo(rng.Float64()*2+2, 1)
	dFrom := float64(rng.IntN(11) + 10)
	dTo := dFrom + float64(rng.IntN(5)+2)

	stockQty := quantity + rng.IntN(10) - 5
	if stockQty < 1 {
		stockQty = 1
	}

	demandVolume := domain.CalculateVolume(dFrom, dTo, length, quantity)
	stockVolume := domain.CalculateVolume(dFrom, dTo, length, stockQty)

	commission := decimal.NewFromFloat(demandVolume).
		Mul(decimal.NewFromFloat(rng.Float64()*5 + 10)).
		Round(2)

	demand := domain.DemandItem{
		ID:             fmt.Sprintf("%s%d-%d", SyntheticDemandPrefix, stamp, i),
		ProductName:    DefaultProductName,
		DiameterFromCm: dFrom,
		DiameterToCm:   dTo,
		LengthM:        length,
		Quantity:       quantity,
		VolumeM3:       demandVolume,
		Notes:          fmt.Sprintf("Placeholder demand %d", i+1),
		Status:         "RECEIVED",
		SubmittedAt:    now,
		CompanyID:      customer.ID,
		CompanyName:    customer.CompanyName,
	}

	stock := domain.StockItem{
		ID:             fmt.Sprintf("%s%d-%d", SyntheticStockPrefix, stamp, i),
		ProductName:    DefaultProductName,
		DiameterFromCm: dFrom,
		DiameterToCm:   dTo,
		LengthM:        length,
		Quantity:       stockQty,
		VolumeM3:       stockVolume,
		Price:          fmt.Sprintf("%d EUR/pc", rng.IntN(10)+15),
		Notes:          fmt.Sprintf("Placeholder stock %d", i+1),
		Status:         "AVAILABLE",
		UploadedAt:     now,
		CompanyID:      manufacturer.ID,
		CompanyName:    manufacturer.CompanyName,
	}

	return domain.Match{
		ID:               fmt.Sprintf("%s%d-%d", SyntheticMatchPrefix, stamp, i),
		DemandID:         demand.ID,
		Demand:           demand,
		StockID:          stock.ID,
		Stock:            stock,
		MatchedAt:        now,
		CommissionRate:   syntheticCommissionRate,
		CommissionAmount: commission,
		Billed:           false,
		Synthetic:        true,
	}
}
