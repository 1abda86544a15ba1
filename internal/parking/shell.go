package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMake  = "Toyota"
	defaultModel = "Corolla"
	defaultColor = "Blue"
)

// Shell reads one command per line and prints the outcome.
type Shell struct {
	controller *InstrumentedController
	scanner    *bufio.Scanner
	out        io.Writer
	telemetry  *TelemetryProvider
}

func NewShell(controller *InstrumentedController, telemetry *TelemetryProvider, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		controller: controller,
		scanner:    bufio.NewScanner(in),
		out:        out,
		telemetry:  telemetry,
	}
}

// Run processes input until EOF or until ctx is cancelled between lines.
func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for s.scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "create_parking_lot":
		s.handleCreateParkingLot(ctx, parts)
	case "park":
		s.handlePark(ctx, parts, false)
	case "park_ev":
		s.handlePark(ctx, parts, true)
	case "leave":
		s.handleLeave(ctx, parts)
	case "status":
		s.handleStatus(ctx)
	case "strategy":
		s.handleStrategy(ctx, parts)
	case "slot_number_for_registration_number":
		s.handleSlotNumberForRegistrationNumber(ctx, parts)
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		s.printf("Unknown command: %s\n", command)
	}
}

func parseNonNegative(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Shell) handleCreateParkingLot(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.create_parking_lot")
	defer span.End()

	if len(parts) != 4 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: create_parking_lot <level> <regular_capacity> <ev_capacity>")
		return
	}

	level, err := strconv.Atoi(parts[1])
	if err != nil {
		span.RecordError(fmt.Errorf("invalid level: %s", parts[1]))
		s.println("Invalid level")
		return
	}

	regular, ok := parseNonNegative(parts[2])
	if !ok {
		span.RecordError(fmt.Errorf("invalid regular capacity: %s", parts[2]))
		s.println("Invalid regular capacity")
		return
	}

	ev, ok := parseNonNegative(parts[3])
	if !ok {
		span.RecordError(fmt.Errorf("invalid ev capacity: %s", parts[3]))
		s.println("Invalid ev capacity")
		return
	}

	if err := s.controller.Configure(ctx, level, regular, ev); err != nil {
		span.RecordError(err)
		s.printf("Failed to create lot: %s\n", err.Error())
		return
	}

	span.AddEvent("parking_lot_created")
	s.printf("Created lot on level %d with %d regular and %d ev slots\n", level, regular, ev)
}

func fieldOr(parts []string, i int, fallback string) string {
	if i < len(parts) {
		return parts[i]
	}
	return fallback
}

func (s *Shell) handlePark(ctx context.Context, parts []string, electric bool) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.park_command",
		trace.WithAttributes(attribute.Bool("vehicle.electric", electric)))
	defer span.End()

	maxArgs := 6
	if electric {
		maxArgs = 7
	}
	if len(parts) < 3 || len(parts) > maxArgs {
		span.AddEvent("invalid_arguments")
		if electric {
			s.println("Usage: park_ev <car|bike> <registration_number> [make] [model] [color] [charge_percent]")
		} else {
			s.println("Usage: park <car|motorcycle|truck> <registration_number> [make] [model] [color]")
		}
		return
	}

	kind, registrationNumber := parts[1], parts[2]
	brand := fieldOr(parts, 3, defaultMake)
	model := fieldOr(parts, 4, defaultModel)
	color := fieldOr(parts, 5, defaultColor)

	var (
		vehicle  *Vehicle
		err      error
		strategy string
	)
	if electric {
		charge, convErr := strconv.Atoi(fieldOr(parts, 6, "0"))
		if convErr != nil {
			span.RecordError(fmt.Errorf("invalid charge percent: %s", parts[6]))
			s.println("Invalid charge percent")
			return
		}
		vehicle, err = NewElectricVehicle(kind, registrationNumber, brand, model, color, charge)
		strategy = StrategyElectricOnly
	} else {
		vehicle, err = NewVehicle(kind, registrationNumber, brand, model, color)
	}
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnsupportedKind) {
			s.printf("Unsupported vehicle kind: %s\n", kind)
			return
		}
		s.printf("Error: %s\n", err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("vehicle.registration_number", registrationNumber),
		attribute.String("vehicle.type", vehicle.Type()),
	)

	slotNumber, ok, err := s.controller.ParkWith(ctx, vehicle, strategy)
	if err != nil {
		span.RecordError(err)
		s.printf("Error: %s\n", err.Error())
		return
	}
	if !ok {
		span.AddEvent("parking_failed")
		s.println("Sorry, parking is full for that type")
		return
	}

	span.AddEvent("parking_successful", trace.WithAttributes(
		attribute.Int("allocated_slot", slotNumber),
	))
	s.printf("Allocated slot number: %d\n", slotNumber)
}

func (s *Shell) handleLeave(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.leave_command")
	defer span.End()

	if len(parts) != 2 && len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: leave <slot_number> [regular|ev]")
		return
	}

	slotNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		span.RecordError(fmt.Errorf("invalid slot number: %s", parts[1]))
		span.AddEvent("invalid_slot_number")
		s.println("Invalid slot number")
		return
	}

	electric := false
	if len(parts) == 3 {
		switch strings.ToLower(parts[2]) {
		case "ev":
			electric = true
		case "regular":
		default:
			span.AddEvent("invalid_pool")
			s.println("Usage: leave <slot_number> [regular|ev]")
			return
		}
	}

	span.SetAttributes(
		attribute.Int("slot_number", slotNumber),
		attribute.Bool("slot.electric", electric),
	)

	if !s.controller.Leave(ctx, slotNumber, electric) {
		span.AddEvent("leave_failed")
		s.printf("Unable to remove a vehicle from slot %d\n", slotNumber)
		return
	}

	span.AddEvent("leave_successful")
	s.printf("Slot number %d is free\n", slotNumber)
}

func (s *Shell) handleStatus(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.status_command")
	defer span.End()

	occupied := s.controller.Occupied(ctx)
	if len(occupied) == 0 {
		span.AddEvent("parking_lot_empty")
		s.println("Parking lot is empty")
		return
	}

	span.SetAttributes(attribute.Int("occupied_slots_count", len(occupied)))

	s.println("Pool\tSlot No.\tRegistration No\tType\tColour")
	for _, slot := range occupied {
		s.printf("%s\t%d\t\t%s\t%s\t%s\n",
			slot.Pool, slot.Number, slot.Vehicle.RegistrationNumber, slot.Vehicle.Type(), slot.Vehicle.Color)
	}
}

func (s *Shell) handleStrategy(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.println("Usage: strategy <regular_first|electric_only>")
		return
	}

	if err := s.controller.SetStrategy(ctx, parts[1]); err != nil {
		s.printf("Unknown strategy: %s\n", parts[1])
		return
	}
	s.printf("Default strategy set to %s\n", parts[1])
}

func (s *Shell) handleSlotNumberForRegistrationNumber(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.find_slot_by_registration")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: slot_number_for_registration_number <registration_number>")
		return
	}

	registrationNumber := parts[1]
	span.SetAttributes(attribute.String("registration_number", registrationNumber))

	view, ok := s.controller.FindByRegistration(ctx, registrationNumber)
	if !ok {
		span.AddEvent("vehicle_not_found")
		s.println("Not found")
		return
	}

	span.AddEvent("vehicle_found", trace.WithAttributes(
		attribute.Int("slot_number", view.Number),
	))
	s.printf("%d (%s)\n", view.Number, view.Pool)
}
