package handler

import (
	"time"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createRequestRequest struct {
	// BusinessID is only honored for admin callers acting on a business's
	// behalf.
	BusinessID       string    `json:"business_id"`
	RequestedTruckID string    `json:"requested_truck_id"`
	BlanketRequest   bool      `json:"blanket_request"`
	StartTime        time.Time `json:"start_time"    validate:"required"`
	EndTime          time.Time `json:"end_time"      validate:"required,gtfield=StartTime"`
	LocationName     string    `json:"location_name" validate:"required"`
	LocationLat      *float64  `json:"location_lat"`
	LocationLng      *float64  `json:"location_lng"`
	Notes            string    `json:"notes"`
}

// actAsTruckRequest is the body for accept and ignore. ActingTruckID is only
// honored for admin callers.
type actAsTruckRequest struct {
	ActingTruckID string `json:"acting_truck_id"`
}

// --- Response types ---
// Response-only types owned by the transport layer, kept separate from
// ports/domain types so the JSON contract is not coupled to internal
// service changes.

type requestResponse struct {
	ID               string    `json:"id"`
	BusinessID       string    `json:"business_id"`
	RequestedTruckID string    `json:"requested_truck_id,omitempty"`
	BlanketRequest   bool      `json:"blanket_request"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	LocationName     string    `json:"location_name"`
	LocationLat      *float64  `json:"location_lat,omitempty"`
	LocationLng      *float64  `json:"location_lng,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Status           string    `json:"status"`
	AcceptedTruckID  string    `json:"accepted_truck_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type requestListResponse struct {
	Data []requestResponse `json:"data"`
}

func toRequestResponse(r *domain.TruckRequest) requestResponse {
	resp := requestResponse{
		ID:               r.ID,
		BusinessID:       r.BusinessID,
		RequestedTruckID: r.RequestedTruckID,
		BlanketRequest:   r.BlanketRequest,
		StartTime:        r.StartTime.UTC(),
		EndTime:          r.EndTime.UTC(),
		LocationName:     r.LocationName,
		Notes:            r.Notes,
		Status:           string(r.Status),
		AcceptedTruckID:  r.AcceptedTruckID,
		CreatedAt:        r.CreatedAt.UTC(),
	}
	if r.Location != nil {
		lat, lng := r.Location.Lat, r.Location.Lng
		resp.LocationLat = &lat
		resp.LocationLng = &lng
	}
	return resp
}

func toRequestListResponse(rs []*domain.TruckRequest) requestListResponse {
	data := make([]requestResponse, len(rs))
	for i, r := range rs {
		data[i] = toRequestResponse(r)
	}
	return requestListResponse{Data: data}
}
