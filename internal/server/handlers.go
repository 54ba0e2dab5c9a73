package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "options-simulator/internal/errors"
	"options-simulator/internal/logging"
	"options-simulator/internal/models"
	"options-simulator/internal/simulation"
	"options-simulator/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validateInput(in *models.SimulationInput) error {
	if in.TargetUnderlyingPrice <= 0 {
		return apperrors.NewValidationError("target_underlying_price", in.TargetUnderlyingPrice, "must be positive")
	}
	if in.DaysPassed < 0 {
		return apperrors.NewValidationError("days_passed", in.DaysPassed, "must not be negative")
	}
	if len(in.Contracts) == 0 && len(in.Positions) == 0 {
		return apperrors.NewValidationError("contracts", nil, "at least one contract or position is required")
	}
	return nil
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in models.SimulationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := validateInput(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result := s.calc.Simulate(in)
	logging.LogSimulation(logging.FromContext(r.Context()), len(in.Contracts), len(in.Positions),
		in.DaysPassed, in.TargetUnderlyingPrice, result.CloseEverything.TotalPL)
	writeJSON(w, http.StatusOK, result)
}

type projectRequest struct {
	Input models.SimulationInput `json:"input"`
	// StepDays controls the sampling interval of the horizon sweep.
	// Zero means daily.
	StepDays int `json:"step_days"`
}

type projectResponse struct {
	Points  []models.ProjectionPoint `json:"points"`
	Summary models.ProjectionSummary `json:"summary"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := validateInput(&req.Input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.StepDays < 0 {
		writeError(w, http.StatusUnprocessableEntity, "step_days must not be negative")
		return
	}

	offsets := s.proj.HorizonOffsets(req.Input, req.StepDays)
	points := s.proj.Project(req.Input, offsets)
	summary, err := simulation.Summarize(points)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logging.LogProjection(logging.FromContext(r.Context()), len(points), req.Input.TargetUnderlyingPrice, time.Since(start))
	writeJSON(w, http.StatusOK, projectResponse{Points: points, Summary: summary})
}

func (s *Server) handleGreeks(w http.ResponseWriter, r *http.Request) {
	var in models.SimulationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(in.Contracts) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "at least one contract is required")
		return
	}

	writeJSON(w, http.StatusOK, s.calc.LegGreeks(in))
}

type saveRequest struct {
	Name  string                 `json:"name"`
	Input models.SimulationInput `json:"input"`
}

func (s *Server) handleSaveSimulation(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sim := &store.SavedSimulation{Name: req.Name, Input: req.Input}
	if err := s.store.Save(r.Context(), sim); err != nil {
		var verr *apperrors.ValidationError
		if apperrors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sim)
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sims == nil {
		sims = []*store.SavedSimulation{}
	}
	writeJSON(w, http.StatusOK, sims)
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sim, err := s.store.Get(r.Context(), id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConfigNotFound) {
			writeError(w, http.StatusNotFound, "simulation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), id); err != nil {
		if apperrors.Is(err, apperrors.ErrConfigNotFound) {
			writeError(w, http.StatusNotFound, "simulation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
