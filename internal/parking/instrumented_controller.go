package parking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var ErrInvalidCapacity = errors.New("capacity must not be negative")

// PoolStatus is a point-in-time copy of one pool.
type PoolStatus struct {
	Capacity int
	Occupied int
	Slots    []SlotView
}

func (p PoolStatus) Available() int {
	return p.Capacity - p.Occupied
}

type LotStatus struct {
	Level    int
	Strategy string
	Regular  PoolStatus
	EV       PoolStatus
}

// InstrumentedController serializes access to a Controller and records a
// span and metrics for every operation. The lock is held for one call only.
type InstrumentedController struct {
	mu         sync.Mutex
	controller *Controller
	telemetry  *TelemetryProvider

	parkingOperations metric.Int64Counter
	leavingOperations metric.Int64Counter
	configurations    metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64UpDownCounter
}

func NewInstrumentedController(controller *Controller, telemetry *TelemetryProvider) (*InstrumentedController, error) {
	meter := telemetry.Meter()

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	leavingOperations, err := meter.Int64Counter("leaving_operations_total",
		metric.WithDescription("Total number of leaving operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	configurations, err := meter.Int64Counter("lot_configurations_total",
		metric.WithDescription("Total number of lot reconfigurations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ic := &InstrumentedController{
		controller:        controller,
		telemetry:         telemetry,
		parkingOperations: parkingOperations,
		leavingOperations: leavingOperations,
		configurations:    configurations,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
	}

	ctx := context.Background()
	lot := controller.Lot()
	for _, p := range []Pool{PoolRegular, PoolElectric} {
		ic.totalSlotsGauge.Add(ctx, int64(lot.Capacity(p)), poolAttr(p))
		ic.occupancyGauge.Add(ctx, int64(lot.OccupiedCount(p)), poolAttr(p))
	}

	return ic, nil
}

func poolAttr(p Pool) metric.AddOption {
	return metric.WithAttributes(attribute.String("pool", p.String()))
}

type occupancy [2]int

func (ic *InstrumentedController) occupancy() occupancy {
	lot := ic.controller.Lot()
	return occupancy{lot.OccupiedCount(PoolRegular), lot.OccupiedCount(PoolElectric)}
}

func (ic *InstrumentedController) recordOccupancy(ctx context.Context, before, after occupancy) {
	for _, p := range []Pool{PoolRegular, PoolElectric} {
		if delta := after[p] - before[p]; delta != 0 {
			ic.occupancyGauge.Add(ctx, int64(delta), poolAttr(p))
		}
	}
}

// Configure replaces the lot with an empty one of the given shape.
func (ic *InstrumentedController) Configure(ctx context.Context, level, regularCapacity, evCapacity int) error {
	tracer := ic.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.configure",
		trace.WithAttributes(
			attribute.Int("lot.level", level),
			attribute.Int("lot.regular_capacity", regularCapacity),
			attribute.Int("lot.ev_capacity", evCapacity),
		))
	defer span.End()

	if regularCapacity < 0 || evCapacity < 0 {
		err := fmt.Errorf("%w: regular=%d ev=%d", ErrInvalidCapacity, regularCapacity, evCapacity)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ic.configurations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failed")))
		return err
	}

	start := time.Now()

	ic.mu.Lock()
	lot := ic.controller.Lot()
	before := ic.occupancy()
	previousRegular, previousEV := lot.Capacity(PoolRegular), lot.Capacity(PoolElectric)

	ic.controller.Configure(level, regularCapacity, evCapacity)

	after := ic.occupancy()
	ic.mu.Unlock()

	ic.recordOccupancy(ctx, before, after)
	ic.totalSlotsGauge.Add(ctx, int64(regularCapacity-previousRegular), poolAttr(PoolRegular))
	ic.totalSlotsGauge.Add(ctx, int64(evCapacity-previousEV), poolAttr(PoolElectric))

	if dropped := before[PoolRegular] + before[PoolElectric]; dropped > 0 {
		span.AddEvent("occupancy_discarded", trace.WithAttributes(attribute.Int("vehicles", dropped)))
	}

	labels := []attribute.KeyValue{
		attribute.String("operation", "configure"),
		attribute.String("status", "success"),
	}
	ic.configurations.Add(ctx, 1, metric.WithAttributes(labels[1]))
	ic.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return nil
}

// Park routes the vehicle by kind: electric vehicles to the EV pool, the
// rest to the regular pool.
func (ic *InstrumentedController) Park(ctx context.Context, vehicle *Vehicle) (int, bool) {
	return ic.park(ctx, vehicle, StrategyForVehicle(vehicle))
}

// ParkWith parks using the named strategy for this call. An empty name uses
// the controller's active strategy.
func (ic *InstrumentedController) ParkWith(ctx context.Context, vehicle *Vehicle, strategyName string) (int, bool, error) {
	var strategy Strategy
	if strategyName != "" {
		s, err := StrategyByName(strategyName)
		if err != nil {
			return 0, false, err
		}
		strategy = s
	}

	slotNumber, ok := ic.park(ctx, vehicle, strategy)
	return slotNumber, ok, nil
}

func (ic *InstrumentedController) park(ctx context.Context, vehicle *Vehicle, strategy Strategy) (int, bool) {
	tracer := ic.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.String("vehicle.registration_number", vehicle.RegistrationNumber),
			attribute.String("vehicle.type", vehicle.Type()),
			attribute.String("vehicle.color", vehicle.Color),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_slot")

	ic.mu.Lock()
	if strategy == nil {
		strategy = ic.controller.Strategy()
	}
	before := ic.occupancy()
	previous := ic.controller.Strategy()
	ic.controller.SetStrategy(strategy)
	slotNumber, ok := ic.controller.Park(vehicle)
	ic.controller.SetStrategy(previous)
	after := ic.occupancy()
	ic.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
		attribute.String("strategy", strategy.Name()),
		attribute.String("vehicle_type", vehicle.Type()),
	}

	if !ok {
		span.AddEvent("pool_full")
		span.SetAttributes(attribute.Bool("parking.full", true))
		labels = append(labels, attribute.String("status", "full"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Int("allocated_slot_number", slotNumber))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
		))
		ic.recordOccupancy(ctx, before, after)
	}

	ic.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ic.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return slotNumber, ok
}

func (ic *InstrumentedController) Leave(ctx context.Context, slotNumber int, electric bool) bool {
	pool := PoolFor(electric)

	tracer := ic.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.leave",
		trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
			attribute.String("pool", pool.String()),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	ic.mu.Lock()
	before := ic.occupancy()
	ok := ic.controller.Leave(slotNumber, electric)
	after := ic.occupancy()
	ic.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "leave"),
		attribute.String("pool", pool.String()),
	}

	if !ok {
		span.AddEvent("slot_not_released")
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.AddEvent("slot_released")
		ic.recordOccupancy(ctx, before, after)
	}

	ic.leavingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ic.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ok
}

// SetStrategy changes the controller's active strategy.
func (ic *InstrumentedController) SetStrategy(ctx context.Context, name string) error {
	_, span := ic.telemetry.Tracer().Start(ctx, "parking_lot.set_strategy",
		trace.WithAttributes(attribute.String("strategy", name)))
	defer span.End()

	strategy, err := StrategyByName(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ic.mu.Lock()
	ic.controller.SetStrategy(strategy)
	ic.mu.Unlock()

	return nil
}

func (ic *InstrumentedController) Status(ctx context.Context) LotStatus {
	tracer := ic.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.get_status")
	defer span.End()

	start := time.Now()

	ic.mu.Lock()
	lot := ic.controller.Lot()
	status := LotStatus{
		Level:    lot.Level,
		Strategy: ic.controller.Strategy().Name(),
		Regular: PoolStatus{
			Capacity: lot.Capacity(PoolRegular),
			Occupied: lot.OccupiedCount(PoolRegular),
			Slots:    lot.Slots(PoolRegular),
		},
		EV: PoolStatus{
			Capacity: lot.Capacity(PoolElectric),
			Occupied: lot.OccupiedCount(PoolElectric),
			Slots:    lot.Slots(PoolElectric),
		},
	}
	ic.mu.Unlock()

	span.SetAttributes(
		attribute.Int("regular.occupied", status.Regular.Occupied),
		attribute.Int("ev.occupied", status.EV.Occupied),
	)

	ic.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "get_status"),
		attribute.String("status", "success"),
	))

	return status
}

// Occupied lists occupied slots of both pools.
func (ic *InstrumentedController) Occupied(ctx context.Context) []SlotView {
	_, span := ic.telemetry.Tracer().Start(ctx, "parking_lot.occupied")
	defer span.End()

	ic.mu.Lock()
	defer ic.mu.Unlock()

	occupied := ic.controller.Lot().Occupied()
	span.SetAttributes(attribute.Int("occupied_slots_count", len(occupied)))
	return occupied
}

func (ic *InstrumentedController) FindByRegistration(ctx context.Context, registrationNumber string) (SlotView, bool) {
	tracer := ic.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.get_slot_by_registration",
		trace.WithAttributes(
			attribute.String("registration_number", registrationNumber),
		))
	defer span.End()

	start := time.Now()

	ic.mu.Lock()
	view, ok := ic.controller.Lot().FindByRegistration(registrationNumber)
	ic.mu.Unlock()

	labels := []attribute.KeyValue{
		attribute.String("operation", "get_slot_by_registration"),
	}

	if !ok {
		span.AddEvent("vehicle_not_found")
		labels = append(labels, attribute.String("status", "not_found"))
	} else {
		span.AddEvent("vehicle_found", trace.WithAttributes(
			attribute.Int("slot_number", view.Number),
			attribute.String("pool", view.Pool.String()),
		))
		labels = append(labels, attribute.String("status", "found"))
	}

	ic.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return view, ok
}
