// Package http is the gateway: it decodes requests, resolves the acting
// identity, hands photo blobs to storage, and maps domain errors to HTTP
// statuses. All workflow decisions live below in the services.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentinspect-backend/internal/security"
	"rentinspect-backend/internal/service"
	"rentinspect-backend/internal/storage"
)

// NewRouter wires every endpoint. Blob upload/download routes stay outside
// the auth middleware; the presigned URL is the credential there.
func NewRouter(
	inspections service.InspectionService,
	disputes service.DisputeService,
	notifications service.NotificationService,
	store storage.StorageInterface,
	tokens security.TokenManager,
) *mux.Router {
	router := mux.NewRouter()

	blobs := NewPhotoBlobHandler(store)
	router.HandleFunc("/api/v1/upload/{token}", blobs.HandleUpload).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/download/{key}", blobs.HandleDownload).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	insp := NewInspectionHandler(inspections, store)
	api.HandleFunc("/inspections", insp.Create).Methods(http.MethodPost)
	api.HandleFunc("/inspections", insp.List).Methods(http.MethodGet)
	api.HandleFunc("/inspections/{id}", insp.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/inspections", insp.ListByBooking).Methods(http.MethodGet)

	api.HandleFunc("/inspections/{id}/start", insp.Start).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/complete", insp.Complete).Methods(http.MethodPost)

	api.HandleFunc("/inspections/{id}/owner-pre-inspection", insp.SubmitOwnerPreInspection).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/owner-pre-inspection/confirm", insp.ConfirmOwnerPreInspection).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/renter-pre-review", insp.SubmitRenterPreReview).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/renter-discrepancy", insp.ReportRenterDiscrepancy).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/renter-post-inspection", insp.SubmitRenterPostInspection).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/renter-post-inspection/confirm", insp.ConfirmRenterPostInspection).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/owner-post-review", insp.SubmitOwnerPostReview).Methods(http.MethodPost)

	api.HandleFunc("/inspections/{id}/items", insp.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/items/{itemId}", insp.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/inspections/{id}/items/{itemId}", insp.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/inspections/{id}/photos/{photoId}", insp.DeletePhoto).Methods(http.MethodDelete)

	disp := NewDisputeHandler(disputes, store)
	api.HandleFunc("/inspections/{id}/disputes", disp.Raise).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/disputes/{disputeId}/review", disp.Review).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/disputes/{disputeId}/resolve", disp.Resolve).Methods(http.MethodPost)
	api.HandleFunc("/inspections/{id}/disputes/{disputeId}/close", disp.Close).Methods(http.MethodPost)

	notes := NewNotificationHandler(notifications)
	api.HandleFunc("/notifications", notes.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notes.MarkAsRead).Methods(http.MethodPost)

	return router
}
