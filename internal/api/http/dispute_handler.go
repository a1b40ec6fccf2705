package http

import (
	"encoding/json"
	"net/http"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/service"
	"rentinspect-backend/internal/storage"
)

type DisputeHandler struct {
	disputes service.DisputeService
	uploads  *InspectionHandler
}

func NewDisputeHandler(disputes service.DisputeService, store storage.StorageInterface) *DisputeHandler {
	return &DisputeHandler{
		disputes: disputes,
		uploads:  &InspectionHandler{store: store},
	}
}

type raiseDisputePayload struct {
	Version  int32              `json:"version"`
	Type     domain.DisputeType `json:"dispute_type"`
	Reason   string             `json:"reason"`
	Evidence string             `json:"evidence,omitempty"`
}

type resolveDisputePayload struct {
	Version           int32  `json:"version"`
	ResolutionNotes   string `json:"resolution_notes"`
	AgreedAmountCents *int32 `json:"agreed_amount_cents,omitempty"`
}

func (h *DisputeHandler) Raise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload raiseDisputePayload
	photos, err := h.uploads.decodeRequest(r, &payload)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.disputes.RaiseDispute(r.Context(), actorFrom(r), id, payload.Version, service.RaiseDisputeRequest{
		Type:     payload.Type,
		Reason:   payload.Reason,
		Evidence: payload.Evidence,
		Photos:   photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *DisputeHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	disputeID, err := pathID(r, "disputeId")
	if err != nil {
		writeError(w, err)
		return
	}
	dispute, err := h.disputes.ReviewDispute(r.Context(), actorFrom(r), id, disputeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	disputeID, err := pathID(r, "disputeId")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload resolveDisputePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.disputes.ResolveDispute(r.Context(), actorFrom(r), id, disputeID, payload.Version,
		payload.ResolutionNotes, payload.AgreedAmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *DisputeHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	disputeID, err := pathID(r, "disputeId")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload versionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.disputes.CloseDispute(r.Context(), actorFrom(r), id, disputeID, payload.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
