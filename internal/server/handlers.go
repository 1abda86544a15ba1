package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ev-parking-lot/internal/logging"
	"ev-parking-lot/internal/parking"
)

const activeStrategy = "active"

type Handler struct {
	controller  *parking.InstrumentedController
	serviceName string
}

func NewHandler(controller *parking.InstrumentedController, serviceName string) *Handler {
	return &Handler{
		controller:  controller,
		serviceName: serviceName,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

func (h *Handler) ConfigureLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ConfigureLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RegularCapacity < 0 || req.EVCapacity < 0 {
		WriteError(ctx, w, http.StatusBadRequest, "Capacities must not be negative")
		return
	}

	if err := h.controller.Configure(ctx, req.Level, req.RegularCapacity, req.EVCapacity); err != nil {
		logging.Error(ctx).Err(err).Msg("failed to configure lot")
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to configure parking lot")
		return
	}

	logging.Info(ctx).
		Int("level", req.Level).
		Int("regular_capacity", req.RegularCapacity).
		Int("ev_capacity", req.EVCapacity).
		Msg("parking lot configured")

	WriteSuccess(ctx, w, fmt.Sprintf("Created lot on level %d with %d regular and %d ev slots",
		req.Level, req.RegularCapacity, req.EVCapacity), map[string]any{
		"level":            req.Level,
		"regular_capacity": req.RegularCapacity,
		"ev_capacity":      req.EVCapacity,
	})
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Kind == "" || req.Registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Kind and registration are required")
		return
	}

	var (
		vehicle *parking.Vehicle
		err     error
	)
	if req.Electric {
		vehicle, err = parking.NewElectricVehicle(req.Kind, req.Registration, req.Make, req.Model, req.Color, req.ChargePercent)
	} else {
		vehicle, err = parking.NewVehicle(req.Kind, req.Registration, req.Make, req.Model, req.Color)
	}
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		slotNumber int
		ok         bool
	)
	switch req.Strategy {
	case "":
		slotNumber, ok = h.controller.Park(ctx, vehicle)
	case activeStrategy:
		slotNumber, ok, err = h.controller.ParkWith(ctx, vehicle, "")
	default:
		slotNumber, ok, err = h.controller.ParkWith(ctx, vehicle, req.Strategy)
	}
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if !ok {
		logging.Warn(ctx).Str("registration", req.Registration).Str("type", vehicle.Type()).Msg("parking full")
		WriteError(ctx, w, http.StatusConflict, "parking is full for that type")
		return
	}

	WriteSuccess(ctx, w, fmt.Sprintf("Allocated slot number: %d", slotNumber), map[string]any{
		"slot_number":  slotNumber,
		"registration": vehicle.RegistrationNumber,
		"type":         vehicle.Type(),
		"electric":     vehicle.IsElectric(),
	})
}

func (h *Handler) LeaveSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req LeaveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SlotNumber <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "Slot number must be greater than 0")
		return
	}

	if !h.controller.Leave(ctx, req.SlotNumber, req.Electric) {
		WriteError(ctx, w, http.StatusBadRequest, fmt.Sprintf("unable to remove a vehicle from slot %d", req.SlotNumber))
		return
	}

	WriteSuccess(ctx, w, fmt.Sprintf("Slot number %d is free", req.SlotNumber), map[string]any{
		"slot_number": req.SlotNumber,
		"electric":    req.Electric,
	})
}

func (h *Handler) SetStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.controller.SetStrategy(ctx, req.Name); err != nil {
		if errors.Is(err, parking.ErrUnknownStrategy) {
			WriteError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to set strategy")
		return
	}

	WriteSuccess(ctx, w, "Strategy updated", map[string]any{
		"strategy": req.Name,
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := h.controller.Status(ctx)

	WriteSuccess(ctx, w, "Status retrieved successfully", StatusResponse{
		Level:    status.Level,
		Strategy: status.Strategy,
		Regular:  newPoolStatusResponse(status.Regular),
		EV:       newPoolStatusResponse(status.EV),
	})
}

func (h *Handler) FindByRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registration := chi.URLParam(r, "registration")
	if registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Registration number is required")
		return
	}

	view, ok := h.controller.FindByRegistration(ctx, registration)
	if !ok {
		WriteError(ctx, w, http.StatusNotFound, "Vehicle not found")
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", newSlotStatus(view))
}
