package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ev-parking-lot/internal/logging"
	"ev-parking-lot/internal/parking"
)

func newTestRouter(t *testing.T, regular, ev int) http.Handler {
	t.Helper()

	logging.Init(false, io.Discard)

	telemetry := parking.NewNoopTelemetryProvider()
	t.Cleanup(func() { _ = telemetry.Shutdown(context.Background()) })

	ic, err := parking.NewInstrumentedController(parking.NewController(parking.NewLot(1, regular, ev), nil), telemetry)
	require.NoError(t, err)

	return NewRouter(NewHandler(ic, "ev-parking-lot-test"), NewRegistry(ic))
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp Response
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func slotNumber(t *testing.T, resp Response) int {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "unexpected data %T", resp.Data)
	return int(data["slot_number"].(float64))
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ev-parking-lot-test", resp.Service)
}

func TestParkingScenario(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	w, resp := do(t, h, http.MethodPost, "/api/parking-lot/", ConfigureLotRequest{Level: 1, RegularCapacity: 2, EVCapacity: 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Meta.RequestID)

	for want := 1; want <= 2; want++ {
		w, resp = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car", Registration: "C" + string(rune('0'+want))})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, slotNumber(t, resp))
	}

	w, resp = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "truck", Registration: "T1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "parking is full for that type", resp.Error)

	w, resp = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car", Registration: "EV1", Electric: true, ChargePercent: 30})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, slotNumber(t, resp))

	w, _ = do(t, h, http.MethodPost, "/api/parking-lot/leave", LeaveSlotRequest{SlotNumber: 1})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = do(t, h, http.MethodPost, "/api/parking-lot/leave", LeaveSlotRequest{SlotNumber: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unable to remove a vehicle from slot 1", resp.Error)

	w, resp = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "motorcycle", Registration: "M1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, slotNumber(t, resp))
}

func TestParkValidation(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	w, resp := do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "hovercraft", Registration: "H1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "unsupported vehicle kind")

	w, _ = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car", Registration: "C1", Strategy: "valet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "unknown allocation strategy")

	req := httptest.NewRequest(http.MethodPost, "/api/parking-lot/park", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigureRejectsNegativeCapacity(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	w, resp := do(t, h, http.MethodPost, "/api/parking-lot/", ConfigureLotRequest{Level: 1, RegularCapacity: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Capacities must not be negative", resp.Error)
}

func TestStrategySelection(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	w, _ := do(t, h, http.MethodPut, "/api/parking-lot/strategy", SetStrategyRequest{Name: parking.StrategyElectricOnly})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car", Registration: "C1", Strategy: "active"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, slotNumber(t, resp))

	w, resp = do(t, h, http.MethodGet, "/api/parking-lot/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.Equal(t, parking.StrategyElectricOnly, status.Strategy)
	assert.Equal(t, 1, status.EV.Occupied)
	assert.Equal(t, 0, status.Regular.Occupied)
	require.Len(t, status.EV.Slots, 1)
	assert.Equal(t, "Car", status.EV.Slots[0].Vehicle.Type)

	w, _ = do(t, h, http.MethodPut, "/api/parking-lot/strategy", SetStrategyRequest{Name: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFindByRegistration(t *testing.T) {
	h := newTestRouter(t, 2, 2)

	do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "bike", Registration: "EB1", Electric: true, ChargePercent: 90})

	w, resp := do(t, h, http.MethodGet, "/api/parking-lot/find/EB1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var slot SlotStatus
	require.NoError(t, json.Unmarshal(raw, &slot))
	assert.Equal(t, 1, slot.SlotNumber)
	assert.Equal(t, "ev", slot.Pool)
	require.NotNil(t, slot.Vehicle)
	require.NotNil(t, slot.Vehicle.ChargePercent)
	assert.Equal(t, 90, *slot.Vehicle.ChargePercent)

	w, _ = do(t, h, http.MethodGet, "/api/parking-lot/find/UNKNOWN", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, 3, 1)
	do(t, h, http.MethodPost, "/api/parking-lot/park", ParkVehicleRequest{Kind: "car", Registration: "C1"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `parking_lot_slots{pool="regular",state="occupied"} 1`)
	assert.Contains(t, body, `parking_lot_slots{pool="regular",state="available"} 2`)
	assert.Contains(t, body, `parking_lot_slots{pool="ev",state="available"} 1`)
	assert.Contains(t, body, "parking_lot_level 1")
}

func TestRecoveryMiddleware(t *testing.T) {
	logging.Init(false, io.Discard)

	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	const id = "7b0f8a2e-5f43-4c59-9a3e-0d1f7f3e8a11"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}
