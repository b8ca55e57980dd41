package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coarank/adapters/ingest"
	"coarank/domain/core"
	"coarank/domain/situation"
	"coarank/internal/report"
)

// RankRequest is the pipeline input record: candidate list plus situation.
// Candidates stay raw until decoded through the ingest surface, which parses
// resource-priority strings and derives requirement weights from their tiers.
type RankRequest struct {
	Candidates json.RawMessage    `json:"candidates"`
	Situation  *situation.Context `json:"situation"`
}

func (a *App) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Situation == nil {
		writeError(w, http.StatusBadRequest, core.ErrMissingSituation)
		return
	}

	candidates, decodeWarnings, err := ingest.DecodeCandidates(req.Candidates, a.parser)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.ranker.Rank(r.Context(), candidates, req.Situation)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsFatalInputError(err) || errors.Is(err, core.ErrMissingCoaID) {
			status = http.StatusBadRequest
		}
		a.logger.Warn("rank request rejected: %v", err)
		writeError(w, status, err)
		return
	}
	result.Warnings = append(result.Warnings, decodeWarnings...)
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleListRankings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	summaries, err := a.ledger.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *App) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	result, err := a.ledger.GetRun(r.Context(), runID)
	if errors.Is(err, core.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleBriefing(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	result, err := a.ledger.GetRun(r.Context(), runID)
	if errors.Is(err, core.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.HTML(result))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
