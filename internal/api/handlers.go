/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, validate them, hand them to the
    encounter Engine and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Is the decision known?)
    - Status Mapping (Engine results with success=false become 4xx)
    - Ownership (Routes under /players/{playerID} are token-checked, see auth.go)
*/

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type CreatePlayerRequest struct {
	Name     string `json:"name"`
	ShipName string `json:"ship_name"`
}

type ResolveRequest struct {
	Decision encounter.Decision `json:"decision"`
}

type CreatePlayerResponse struct {
	Player *game.Player `json:"player"`
	Token  string       `json:"token,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler holds the dependencies shared by every route.
type Handler struct {
	engine *encounter.Engine
	auth   *Auth
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Message: msg})
}

// engineError maps lookup failures to 404 and everything else to 500.
func engineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, encounter.ErrPlayerNotFound), errors.Is(err, encounter.ErrEncounterNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("API: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return false
	}
	return true
}

func playerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return 0, false
	}
	return id, true
}

// HandleCreatePlayer spawns a new player with the starter ship.
func (h *Handler) HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if !decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := h.engine.SpawnPlayer(r.Context(), req.Name, strings.TrimSpace(req.ShipName))
	if err != nil {
		engineError(w, r, err)
		return
	}
	token, err := h.auth.Issue(p.ID, p.Name)
	if err != nil {
		engineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatePlayerResponse{Player: p, Token: token})
}

// HandleGetPlayer returns the player, their ship and cargo.
func (h *Handler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	p, err := h.engine.Player(r.Context(), id)
	if err != nil {
		engineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleBeginEncounter spawns (or returns the pending) pirate ambush.
func (h *Handler) HandleBeginEncounter(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var req encounter.Spawn
	if !decode(w, r, &req) {
		return
	}

	b, err := h.engine.Begin(r.Context(), id, req)
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !b.Success {
		writeJSON(w, http.StatusBadRequest, b)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleGetEncounter returns the stored encounter, including its log.
func (h *Handler) HandleGetEncounter(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	enc, err := h.engine.Encounter(r.Context(), id, chi.URLParam(r, "encounterID"))
	if err != nil {
		engineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enc)
}

// HandleResolve applies fight / flee / surrender.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var req ResolveRequest
	if !decode(w, r, &req) {
		return
	}
	switch req.Decision {
	case encounter.DecisionFight, encounter.DecisionFlee, encounter.DecisionSurrender:
	default:
		writeError(w, http.StatusBadRequest, "decision must be fight, flee or surrender")
		return
	}

	res, err := h.engine.Resolve(r.Context(), id, chi.URLParam(r, "encounterID"), req.Decision)
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleClaimSalvage moves selected loot into the player's hold.
func (h *Handler) HandleClaimSalvage(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var sel encounter.Selection
	if !decode(w, r, &sel) {
		return
	}
	if err := sel.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.engine.ClaimSalvage(r.Context(), id, chi.URLParam(r, "encounterID"), sel)
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCheckSpace is a "pre-flight check" for a salvage selection.
func (h *Handler) HandleCheckSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var sel encounter.Selection
	if !decode(w, r, &sel) {
		return
	}
	if err := sel.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	check, err := h.engine.CheckSalvageSpace(r.Context(), id, sel)
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !check.Success {
		writeJSON(w, http.StatusConflict, check)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// HandleRepair restores the hull for credits.
func (h *Handler) HandleRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Repair(r.Context(), id)
	if err != nil {
		engineError(w, r, err)
		return
	}
	switch {
	case res.Success:
		writeJSON(w, http.StatusOK, res)
	case res.Needed > 0:
		writeJSON(w, http.StatusPaymentRequired, res)
	default:
		writeJSON(w, http.StatusConflict, res)
	}
}

// HandleGetCaptains returns the pirate captain roster.
func (h *Handler) HandleGetCaptains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Universe().Captains)
}

// HandleGetShips returns the ship template catalog.
func (h *Handler) HandleGetShips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Universe().ShipTemplates)
}
