package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"load-planning-service/internal/adapters/oracle"
	"load-planning-service/internal/api/dto"
	"load-planning-service/internal/api/handlers"
	"load-planning-service/internal/domain"
	"load-planning-service/internal/ports"
	"load-planning-service/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	matches   []domain.Match
	companies []domain.Company
}

func (r *stubRepo) ListMatches(context.Context) ([]domain.Match, error) { return r.matches, nil }

func (r *stubRepo) ListCompanies(context.Context) ([]domain.Company, error) {
	return r.companies, nil
}

const planAnswer = `{"planDetails": "ok",
 "items": [{"name": "Post", "volumeM3": "5", "destinationName": "Vevo Kft", "dropOffOrder": 1}],
 "capacityUsed": "20%",
 "waypoints": [{"name": "Gyarto Zrt", "type": "pickup", "order": 0}],
 "optimizedRouteDescription": "Debrecen -> Budapest"}`

func testRepo() *stubRepo {
	match := func(id string, billed bool) domain.Match {
		return domain.Match{
			ID:               id,
			DemandID:         "DEM-" + id,
			Demand:           domain.DemandItem{ID: "DEM-" + id, ProductName: "Acacia post", Quantity: 30, VolumeM3: 2.5, CompanyID: "C1", CompanyName: "Vevo Kft"},
			StockID:          "STK-" + id,
			Stock:            domain.StockItem{ID: "STK-" + id, Quantity: 35, CompanyID: "M1", CompanyName: "Gyarto Zrt"},
			CommissionAmount: decimal.RequireFromString("31.25"),
			Billed:           billed,
		}
	}
	return &stubRepo{
		matches: []domain.Match{match("1", false), match("2", false), match("3", true)},
		companies: []domain.Company{
			{ID: "C1", CompanyName: "Vevo Kft", Role: domain.RoleCustomer},
			{ID: "M1", CompanyName: "Gyarto Zrt", Role: domain.RoleManufacturer, Address: &domain.Address{City: "Debrecen"}},
		},
	}
}

func newTestRouter(repo ports.MatchRepository, o ports.PlanOracle) http.Handler {
	planner := &services.ShipmentPlanner{
		Repo:    repo,
		Oracle:  o,
		NewRand: func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
		Now:     func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) },
	}
	return NewRouter(repo, planner, services.NewRunRegistry(), RouterConfig{DefaultLanguage: "en", DefaultCapacity: 25})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(testRepo(), oracle.Unavailable{})

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestListMatchesSkipsBilled(t *testing.T) {
	rec := do(t, newTestRouter(testRepo(), oracle.Unavailable{}), http.MethodGet, "/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListMatchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "Gyarto Zrt", res.Matches[0].PickupCompany)
	assert.Equal(t, "Vevo Kft", res.Matches[0].DropoffCompany)
	assert.Equal(t, "31.25", res.Matches[0].CommissionAmount.String())
	assert.Nil(t, res.Matches[0].MatchedAt)
}

func TestListCompanies(t *testing.T) {
	rec := do(t, newTestRouter(testRepo(), oracle.Unavailable{}), http.MethodGet, "/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListCompaniesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Companies, 2)
	assert.Equal(t, "MANUFACTURER", res.Companies[1].Role)
	assert.Equal(t, "N/A, Debrecen, N/A", res.Companies[1].Address)
}

func TestPlanEndpoint(t *testing.T) {
	o := oracle.NewScriptedOracle(
		oracle.ScriptedReply{Text: planAnswer},
		oracle.ScriptedReply{Text: "Dear carrier"},
	)

	rec := do(t, newTestRouter(testRepo(), o), http.MethodPost, "/plans", `{"language": "hu", "truck_capacity_m3": 20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Dear carrier", res.CarrierEmail)
	assert.Zero(t, res.SyntheticMatches)
	require.Len(t, res.Layout.Placed, 1)
	assert.Equal(t, 20.0, res.Layout.TruckCapacityM3)
	assert.Contains(t, o.Requests()[0].Prompt, "in Hungarian")
}

func TestPlanEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		repo   *stubRepo
		oracle ports.PlanOracle
		body   string
		status int
		kind   string
	}{
		{"oracle unavailable", testRepo(), oracle.Unavailable{}, `{}`, http.StatusServiceUnavailable, "OracleUnavailable"},
		{"no data", &stubRepo{}, oracle.NewScriptedOracle(), `{}`, http.StatusUnprocessableEntity, "InsufficientData"},
		{"malformed", testRepo(), oracle.NewScriptedOracle(oracle.ScriptedReply{Text: "no idea"}), ``, http.StatusBadGateway, "MalformedPlan"},
		{"bad shape", testRepo(), oracle.NewScriptedOracle(oracle.ScriptedReply{Text: `{"items": 1, "waypoints": []}`}), `{}`, http.StatusBadGateway, "InvalidPlanShape"},
		{"bad capacity", testRepo(), oracle.NewScriptedOracle(), `{"truck_capacity_m3": -1}`, http.StatusBadRequest, ""},
		{"unknown field", testRepo(), oracle.NewScriptedOracle(), `{"hub": "x"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(tt.repo, tt.oracle), http.MethodPost, "/plans", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var res dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.kind, res.Kind)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestPlanEndpointOracleFailureCarriesCause(t *testing.T) {
	o := oracle.NewScriptedOracle(oracle.ScriptedReply{Err: errors.New("quota exhausted for project 42")})

	rec := do(t, newTestRouter(testRepo(), o), http.MethodPost, "/plans", `{}`)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "OracleCallFailed", res.Kind)
	assert.Contains(t, res.Error, "oracle plan request failed")
	assert.Contains(t, res.Error, "quota exhausted for project 42")
}

func TestPlanEndpointSupersededSession(t *testing.T) {
	runs := services.NewRunRegistry()
	planner := &services.ShipmentPlanner{Repo: testRepo(), Oracle: oracle.NewScriptedOracle(oracle.ScriptedReply{Text: planAnswer})}
	h := NewRouter(testRepo(), planner, runs, RouterConfig{DefaultCapacity: 25})

	// A run already in flight for another request of the same session is
	// cancelled by the new one; the new one itself completes.
	staleCtx, _, releaseStale := runs.Begin(context.Background(), "op-7")
	defer releaseStale()

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"skip_carrier_email": true}`))
	req.Header.Set("X-Operator-Session", "op-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, services.Superseded(staleCtx))
	assert.Equal(t, 0, runs.Active())
}

func TestLayoutEndpoint(t *testing.T) {
	body := `{"truck_capacity_m3": 10, "items": [
		{"name": "a", "volumeM3": "4", "destinationName": "A", "dropOffOrder": 1},
		{"name": "b", "volumeM3": 6, "destinationName": "B", "dropOffOrder": 2},
		{"name": "c", "volumeM3": "0", "destinationName": "C", "dropOffOrder": null}
	]}`

	rec := do(t, newTestRouter(testRepo(), oracle.Unavailable{}), http.MethodPost, "/layouts", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var layout domain.LoadLayout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layout))
	require.Len(t, layout.Placed, 2)
	assert.Equal(t, "b", layout.Placed[0].Name)
	assert.Len(t, layout.Overflowed, 1)
	assert.InDelta(t, 100.0, layout.UtilizationPct, 1e-9)
}

func TestRecoverReturns500(t *testing.T) {
	h := loggingMiddleware(handlers.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
