package vehicles

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetops/ringrail/core/model"
)

type callRequest struct {
	Vehicle string `json:"vehicle"`
	Station int    `json:"station"`
}

type initializeRequest struct {
	Positions map[string]int `json:"positions"`
}

type ackResponse struct {
	Status string `json:"status"`
}

type sequencesResponse struct {
	Sequences    map[string][]int       `json:"sequences"`
	PendingCalls []model.PendingRequest `json:"pending_calls"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	Uptime      string `json:"uptime"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	vehicle := chi.URLParam(r, "vehicle")
	cmd, err := s.dispatcher.NextCommand(vehicle)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmd)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	vehicle := chi.URLParam(r, "vehicle")
	var rep model.ArrivalReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid report body: " + err.Error()})
		return
	}
	if err := s.dispatcher.ReportArrival(vehicle, rep); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid call body: " + err.Error()})
		return
	}
	if err := s.dispatcher.RequestMove(req.Vehicle, req.Station); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid initialize body: " + err.Error()})
		return
	}
	if err := s.dispatcher.Initialize(req.Positions); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatcher.Reset()
	respondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dispatcher.Snapshot())
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.dispatcher.Positions()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, positions)
}

func (s *Server) handleSequences(w http.ResponseWriter, r *http.Request) {
	snap := s.dispatcher.Snapshot()
	respondJSON(w, http.StatusOK, sequencesResponse{
		Sequences:    s.dispatcher.PlannedPaths(),
		PendingCalls: snap.PendingQueue,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dispatcher.Dashboard())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Initialized: s.dispatcher.Snapshot().Initialized,
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
	})
}
