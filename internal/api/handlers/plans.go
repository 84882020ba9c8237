package handlers

import (
	"errors"
	"net/http"
	"strings"

	"load-planning-service/internal/api/dto"
	"load-planning-service/internal/domain"
	"load-planning-service/internal/services"

	"go.uber.org/zap"
)

// SessionHeader identifies the operator; a new plan request from the same
// session cancels the one still running.
const SessionHeader = "X-Operator-Session"

const maxTruckCapacityM3 = 200

// PlanHandler runs the shipment planning pipeline.
type PlanHandler struct {
	Planner         *services.ShipmentPlanner
	Runs            *services.RunRegistry
	DefaultLanguage string
	DefaultCapacity float64
}

// Plan aggregates the open matches, asks the oracle for a loading plan and
// returns it with the truck layout and the carrier email draft.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	capacity, ok := resolveCapacity(w, r, req.TruckCapacityM3, h.DefaultCapacity)
	if !ok {
		return
	}

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = h.DefaultLanguage
	}

	ctx := r.Context()
	if session := strings.TrimSpace(r.Header.Get(SessionHeader)); session != "" && h.Runs != nil {
		var release func()
		ctx, _, release = h.Runs.Begin(ctx, session)
		defer release()
	}

	run, err := h.Planner.Plan(ctx, services.PlanShipmentRequest{
		Language:         lang,
		TruckCapacityM3:  capacity,
		SkipCarrierEmail: req.SkipCarrierEmail,
	})
	if err != nil {
		writePlanError(w, r, err, services.Superseded(ctx))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PlanResponse{
		RunID:            run.ID,
		Plan:             run.Plan,
		Layout:           run.Layout,
		CarrierEmail:     run.CarrierEmail,
		SyntheticMatches: run.SyntheticMatches,
	})
}

func writePlanError(w http.ResponseWriter, r *http.Request, err error, superseded bool) {
	if superseded || errors.Is(err, services.ErrRunSuperseded) {
		writeKindError(w, r, http.StatusConflict, "Superseded", "plan request superseded by a newer one")
		return
	}

	kind, ok := services.KindOf(err)
	if !ok {
		zap.L().Error("plan shipment failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	var pe *services.PlanError
	errors.As(err, &pe)

	status := http.StatusBadGateway
	switch kind {
	case services.KindInsufficientData:
		status = http.StatusUnprocessableEntity
	case services.KindOracleUnavailable:
		status = http.StatusServiceUnavailable
	}

	msg := pe.Detail
	if kind == services.KindOracleCallFailed && pe.Err != nil {
		msg += ": " + pe.Err.Error()
	}

	zap.L().Warn("plan shipment rejected", zap.String("kind", string(kind)), zap.Error(err))
	writeKindError(w, r, status, string(kind), msg)
}

// LayoutHandler renders an already accepted plan onto the truck bed
// without calling the oracle.
type LayoutHandler struct {
	DefaultCapacity float64
}

func (h *LayoutHandler) Layout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LayoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	capacity, ok := resolveCapacity(w, r, req.TruckCapacityM3, h.DefaultCapacity)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, services.LayoutLoad(req.Items, domain.NewTruckBed(capacity)))
}

func resolveCapacity(w http.ResponseWriter, r *http.Request, requested, fallback float64) (float64, bool) {
	if requested == 0 {
		return fallback, true
	}
	if requested < 0 || requested > maxTruckCapacityM3 {
		writeError(w, r, http.StatusBadRequest, "truck_capacity_m3 must be between 0 and 200")
		return 0, false
	}
	return requested, true
}
