package http

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/service"
	"rentinspect-backend/internal/storage"
)

const maxUploadBytes = 32 << 20

// InspectionHandler exposes the workflow engine over HTTP. Multipart
// submissions stream their photo files to the blob store first; the
// aggregate write only ever sees completed photo references.
type InspectionHandler struct {
	inspections service.InspectionService
	store       storage.StorageInterface
}

func NewInspectionHandler(inspections service.InspectionService, store storage.StorageInterface) *InspectionHandler {
	return &InspectionHandler{inspections: inspections, store: store}
}

type createInspectionPayload struct {
	ProductID      int32                 `json:"product_id,omitempty"`
	BookingID      int32                 `json:"booking_id"`
	InspectorID    *int32                `json:"inspector_id,omitempty"`
	InspectionType domain.InspectionType `json:"inspection_type"`
	ScheduledAt    time.Time             `json:"scheduled_at"`
	Location       string                `json:"location"`
	Notes          string                `json:"notes,omitempty"`
	OwnerPre       *submissionPayload    `json:"owner_pre_inspection,omitempty"`
}

type submissionPayload struct {
	Version   int32                `json:"version"`
	Condition domain.ItemCondition `json:"condition"`
	Notes     string               `json:"notes,omitempty"`
	Location  *domain.GeoPoint     `json:"location,omitempty"`
	Confirmed bool                 `json:"confirmed"`
}

type versionPayload struct {
	Version int32 `json:"version"`
}

type preReviewPayload struct {
	Version int32 `json:"version"`
	Accept  bool  `json:"accept"`
}

type completePayload struct {
	Version        int32  `json:"version"`
	InspectorNotes string `json:"inspector_notes,omitempty"`
}

type discrepancyPayload struct {
	Version int32    `json:"version"`
	Issues  []string `json:"issues"`
	Notes   string   `json:"notes,omitempty"`
}

type ownerPostReviewPayload struct {
	Version       int32              `json:"version"`
	Accepted      bool               `json:"accepted"`
	DisputeRaised bool               `json:"dispute_raised,omitempty"`
	DisputeType   domain.DisputeType `json:"dispute_type,omitempty"`
	DisputeReason string             `json:"dispute_reason,omitempty"`
	Evidence      string             `json:"evidence,omitempty"`
}

type itemPayload struct {
	ItemName             string               `json:"item_name"`
	Condition            domain.ItemCondition `json:"condition"`
	Description          string               `json:"description,omitempty"`
	RepairCostCents      int32                `json:"repair_cost_cents"`
	ReplacementCostCents int32                `json:"replacement_cost_cents"`
}

func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createInspectionPayload
	photos, err := h.decodeRequest(r, &payload)
	if err != nil {
		writeError(w, err)
		return
	}
	req := service.CreateInspectionRequest{
		ProductID:   payload.ProductID,
		BookingID:   payload.BookingID,
		InspectorID: payload.InspectorID,
		Type:        payload.InspectionType,
		ScheduledAt: payload.ScheduledAt,
		Location:    payload.Location,
		Notes:       payload.Notes,
	}
	if payload.OwnerPre != nil {
		req.OwnerPreInspection = &service.SubmissionRequest{
			Condition: payload.OwnerPre.Condition,
			Notes:     payload.OwnerPre.Notes,
			Location:  payload.OwnerPre.Location,
			Confirmed: payload.OwnerPre.Confirmed,
			Photos:    photos,
		}
	}
	view, err := h.inspections.CreateInspection(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.inspections.GetInspection(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	inspections, total, err := h.inspections.ListInspections(r.Context(), actorFrom(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspections": inspections,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
	})
}

func (h *InspectionHandler) ListByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, err)
		return
	}
	inspections, err := h.inspections.ListByBooking(r.Context(), actorFrom(r), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inspections": inspections})
}

func (h *InspectionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.versionedEvent(w, r, func(id, version int32) (*domain.InspectionView, error) {
		return h.inspections.Start(r.Context(), actorFrom(r), id, version)
	})
}

func (h *InspectionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload completePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.inspections.Complete(r.Context(), actorFrom(r), id, payload.Version, payload.InspectorNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) SubmitOwnerPreInspection(w http.ResponseWriter, r *http.Request) {
	h.submissionEvent(w, r, h.inspections.SubmitOwnerPreInspection)
}

func (h *InspectionHandler) ConfirmOwnerPreInspection(w http.ResponseWriter, r *http.Request) {
	h.versionedEvent(w, r, func(id, version int32) (*domain.InspectionView, error) {
		return h.inspections.ConfirmOwnerPreInspection(r.Context(), actorFrom(r), id, version)
	})
}

func (h *InspectionHandler) SubmitRenterPreReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload preReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.inspections.SubmitRenterPreReview(r.Context(), actorFrom(r), id, payload.Version, payload.Accept)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) ReportRenterDiscrepancy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload discrepancyPayload
	photos, err := h.decodeRequest(r, &payload)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.inspections.ReportRenterDiscrepancy(r.Context(), actorFrom(r), id, payload.Version, service.DiscrepancyRequest{
		Issues: payload.Issues,
		Notes:  payload.Notes,
		Photos: photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) SubmitRenterPostInspection(w http.ResponseWriter, r *http.Request) {
	h.submissionEvent(w, r, h.inspections.SubmitRenterPostInspection)
}

func (h *InspectionHandler) ConfirmRenterPostInspection(w http.ResponseWriter, r *http.Request) {
	h.versionedEvent(w, r, func(id, version int32) (*domain.InspectionView, error) {
		return h.inspections.ConfirmRenterPostInspection(r.Context(), actorFrom(r), id, version)
	})
}

func (h *InspectionHandler) SubmitOwnerPostReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload ownerPostReviewPayload
	photos, err := h.decodeRequest(r, &payload)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.inspections.SubmitOwnerPostReview(r.Context(), actorFrom(r), id, payload.Version, service.OwnerPostReviewRequest{
		Accepted:      payload.Accepted,
		DisputeRaised: payload.DisputeRaised,
		DisputeType:   payload.DisputeType,
		DisputeReason: payload.DisputeReason,
		Evidence:      payload.Evidence,
		Photos:        photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.inspections.AddItem(r.Context(), actorFrom(r), id, itemRequestOf(payload))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *InspectionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := h.inspections.UpdateItem(r.Context(), actorFrom(r), id, itemID, itemRequestOf(payload))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.inspections.DeleteItem(r.Context(), actorFrom(r), id, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	photoID, err := pathID(r, "photoId")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.inspections.DeletePhoto(r.Context(), actorFrom(r), id, photoID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) versionedEvent(w http.ResponseWriter, r *http.Request, apply func(id, version int32) (*domain.InspectionView, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload versionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.NewError(domain.KindInvalidArgument, "malformed request body"))
		return
	}
	view, err := apply(id, payload.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *InspectionHandler) submissionEvent(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, actor domain.Actor, id, version int32, req service.SubmissionRequest) (*domain.InspectionView, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload submissionPayload
	photos, err := h.decodeRequest(r, &payload)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := apply(r.Context(), actorFrom(r), id, payload.Version, service.SubmissionRequest{
		Condition: payload.Condition,
		Notes:     payload.Notes,
		Location:  payload.Location,
		Confirmed: payload.Confirmed,
		Photos:    photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// decodeRequest decodes either a plain JSON body or a multipart form with a
// "payload" JSON part plus "photos" file parts. Every photo file is fully
// stored before the decoded request reaches the service.
func (h *InspectionHandler) decodeRequest(r *http.Request, payload any) ([]domain.InspectionPhoto, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
			return nil, domain.NewError(domain.KindInvalidArgument, "malformed request body")
		}
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, domain.NewError(domain.KindInvalidArgument, "malformed multipart form")
	}
	raw := r.FormValue("payload")
	if raw == "" {
		return nil, domain.NewError(domain.KindInvalidArgument, "missing payload part")
	}
	if err := json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, domain.NewError(domain.KindInvalidArgument, "malformed payload part")
	}

	var photos []domain.InspectionPhoto
	for _, header := range r.MultipartForm.File["photos"] {
		photo, err := h.storePhoto(r, header)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, nil
}

func (h *InspectionHandler) storePhoto(r *http.Request, header *multipart.FileHeader) (*domain.InspectionPhoto, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return nil, domain.NewError(domain.KindInvalidArgument,
			fmt.Sprintf("unsupported photo type: %s", header.Filename))
	}
	file, err := header.Open()
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidArgument, "unreadable photo part")
	}
	defer file.Close()

	key := fmt.Sprintf("inspections/%s%s", uuid.New().String(), ext)
	if err := h.store.SaveFile(key, file); err != nil {
		return nil, domain.NewError(domain.KindUpstreamUnavailable,
			fmt.Sprintf("photo store rejected upload: %v", err))
	}
	url, err := h.store.GeneratePresignedDownloadURL(r.Context(), key, 24*time.Hour)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstreamUnavailable,
			fmt.Sprintf("photo store rejected download url: %v", err))
	}
	category := domain.PhotoCategory(r.FormValue("category"))
	return &domain.InspectionPhoto{URL: url, Category: category}, nil
}

func itemRequestOf(payload itemPayload) service.ItemRequest {
	return service.ItemRequest{
		ItemName:             payload.ItemName,
		Condition:            payload.Condition,
		Description:          payload.Description,
		RepairCostCents:      payload.RepairCostCents,
		ReplacementCostCents: payload.ReplacementCostCents,
	}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.KindInvalidArgument, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return int32(id), nil
}

func queryInt(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || val <= 0 {
		return fallback
	}
	return int32(val)
}
