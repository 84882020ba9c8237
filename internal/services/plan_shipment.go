package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"load-planning-service/internal/domain"
	"load-planning-service/internal/platform/obs"
	"load-planning-service/internal/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

type PlanShipmentRequest struct {
	Language         string
	TruckCapacityM3  float64
	SkipCarrierEmail bool
}

// PlanRun is the outcome of one successful planning run.
type PlanRun struct {
	ID               string
	Request          domain.PlanRequest
	Plan             *domain.LoadingPlan
	Layout           domain.LoadLayout
	CarrierEmail     string
	SyntheticMatches int
}

// ShipmentPlanner runs the planning pipeline: aggregate matches, ask the
// oracle for a loading plan, validate it, lay it out and draft the carrier
// email.
type ShipmentPlanner struct {
	Repo   ports.MatchRepository
	Oracle ports.PlanOracle

	// NewRand returns the generator for synthetic matches of one run.
	// Nil means a time-seeded generator.
	NewRand func() *rand.Rand
	// Now defaults to time.Now.
	Now func() time.Time
}

func (p *ShipmentPlanner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *ShipmentPlanner) rng(now time.Time) *rand.Rand {
	if p.NewRand != nil {
		return p.NewRand()
	}
	return rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
}

// Plan runs the pipeline once. Errors are *PlanError except for store
// failures, which are wrapped as is.
func (p *ShipmentPlanner) Plan(ctx context.Context, req PlanShipmentRequest) (run *PlanRun, err error) {
	defer obs.Time(ctx, "plan_shipment")(&err)

	if p.Oracle == nil || !p.Oracle.Available() {
		return nil, newPlanError(KindOracleUnavailable, nil, "planning oracle is not configured")
	}

	matches, companies, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	now := p.now()
	agg, err := AggregateMatches(matches, companies, p.rng(now), now)
	if err != nil {
		return nil, err
	}

	planReq := BuildPlanRequest(agg.Matches, companies, req.TruckCapacityM3, req.Language)
	prompt, err := RenderPlanPrompt(planReq)
	if err != nil {
		return nil, fmt.Errorf("plan shipment: %w", err)
	}

	raw, err := p.propose(ctx, prompt)
	if err != nil {
		return nil, err
	}

	plan, err := ParsePlanResponse(raw, now)
	if err != nil {
		return nil, err
	}

	layout := LayoutLoad(plan.Items, domain.NewTruckBed(planReq.CapacityM3))

	run = &PlanRun{
		ID:               uuid.NewString(),
		Request:          planReq,
		Plan:             plan,
		Layout:           layout,
		SyntheticMatches: agg.Synthetic,
	}

	if !req.SkipCarrierEmail {
		run.CarrierEmail = p.draftNotice(ctx, plan, req.Language)
	}

	zap.L().Info("shipment planned",
		zap.String("req_id", obs.RequestID(ctx)),
		zap.String("run_id", run.ID),
		zap.String("plan_id", plan.ID),
		zap.Int("items", len(plan.Items)),
		zap.Int("placed", len(layout.Placed)),
		zap.Int("overflowed", len(layout.Overflowed)),
		zap.Int("synthetic_matches", agg.Synthetic),
	)

	return run, nil
}

func (p *ShipmentPlanner) load(ctx context.Context) (matches []domain.Match, companies []domain.Company, err error) {
	defer obs.Time(ctx, "load_matches")(&err)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		matches, e = p.Repo.ListMatches(gctx)
		if e != nil {
			return fmt.Errorf("plan shipment: list matches: %w", e)
		}
		return nil
	})
	g.Go(func() error {
		var e error
		companies, e = p.Repo.ListCompanies(gctx)
		if e != nil {
			return fmt.Errorf("plan shipment: list companies: %w", e)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return matches, companies, nil
}

func (p *ShipmentPlanner) propose(ctx context.Context, prompt string) (raw string, err error) {
	defer obs.Time(ctx, "oracle_plan")(&err)

	raw, err = p.Oracle.Propose(ctx, ports.OracleRequest{Prompt: prompt, ExpectJSON: true})
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(err, cause) {
			err = fmt.Errorf("%w (%w)", err, cause)
		}
		return "", newPlanError(KindOracleCallFailed, err, "oracle plan request failed")
	}
	return raw, nil
}

func (p *ShipmentPlanner) draftNotice(ctx context.Context, plan *domain.LoadingPlan, language string) string {
	defer obs.Time(ctx, "oracle_carrier_email")(nil)

	return DraftCarrierNotice(ctx, p.Oracle, plan, language)
}
