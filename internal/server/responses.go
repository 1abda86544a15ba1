package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"ev-parking-lot/internal/logging"
	"ev-parking-lot/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ConfigureLotRequest struct {
	Level           int `json:"level"`
	RegularCapacity int `json:"regular_capacity"`
	EVCapacity      int `json:"ev_capacity"`
}

type ParkVehicleRequest struct {
	Kind          string `json:"kind"`
	Registration  string `json:"registration"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Color         string `json:"color"`
	Electric      bool   `json:"electric"`
	ChargePercent int    `json:"charge_percent"`
	// Strategy forces a named strategy for this call; "active" uses the
	// lot's current strategy and empty routes by vehicle kind.
	Strategy string `json:"strategy,omitempty"`
}

type LeaveSlotRequest struct {
	SlotNumber int  `json:"slot_number"`
	Electric   bool `json:"electric"`
}

type SetStrategyRequest struct {
	Name string `json:"name"`
}

type VehicleResponse struct {
	Type          string `json:"type"`
	Registration  string `json:"registration"`
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	Color         string `json:"color,omitempty"`
	ChargePercent *int   `json:"charge_percent,omitempty"`
}

type SlotStatus struct {
	SlotNumber int              `json:"slot_number"`
	Pool       string           `json:"pool"`
	Occupied   bool             `json:"occupied"`
	Vehicle    *VehicleResponse `json:"vehicle,omitempty"`
}

type PoolStatusResponse struct {
	Capacity  int          `json:"capacity"`
	Occupied  int          `json:"occupied"`
	Available int          `json:"available"`
	Slots     []SlotStatus `json:"slots"`
}

type StatusResponse struct {
	Level    int                `json:"level"`
	Strategy string             `json:"strategy"`
	Regular  PoolStatusResponse `json:"regular"`
	EV       PoolStatusResponse `json:"ev"`
}

func newVehicleResponse(v parking.Vehicle) *VehicleResponse {
	resp := &VehicleResponse{
		Type:         v.Type(),
		Registration: v.RegistrationNumber,
		Make:         v.Make,
		Model:        v.Model,
		Color:        v.Color,
	}
	if v.IsElectric() {
		charge := v.ChargePercent
		resp.ChargePercent = &charge
	}
	return resp
}

func newSlotStatus(view parking.SlotView) SlotStatus {
	s := SlotStatus{
		SlotNumber: view.Number,
		Pool:       view.Pool.String(),
		Occupied:   view.Occupied,
	}
	if view.Occupied {
		s.Vehicle = newVehicleResponse(view.Vehicle)
	}
	return s
}

func newPoolStatusResponse(p parking.PoolStatus) PoolStatusResponse {
	slots := make([]SlotStatus, 0, len(p.Slots))
	for _, view := range p.Slots {
		slots = append(slots, newSlotStatus(view))
	}
	return PoolStatusResponse{
		Capacity:  p.Capacity,
		Occupied:  p.Occupied,
		Available: p.Available(),
		Slots:     slots,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger().Error().Err(err).Msg("failed to write response")
	}
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
