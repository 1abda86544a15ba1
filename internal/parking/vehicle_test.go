package parking

import (
	"errors"
	"testing"
)

func TestNewVehicle(t *testing.T) {
	vehicle, err := NewVehicle("Car", "KA01HH1234", "Toyota", "Corolla", "White")
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	if vehicle.Kind != KindCar {
		t.Errorf("Expected kind %s, got %s", KindCar, vehicle.Kind)
	}
	if vehicle.RegistrationNumber != "KA01HH1234" {
		t.Errorf("Expected registration number KA01HH1234, got %s", vehicle.RegistrationNumber)
	}
	if vehicle.Make != "Toyota" || vehicle.Model != "Corolla" || vehicle.Color != "White" {
		t.Errorf("Unexpected descriptive fields: %+v", vehicle)
	}
	if vehicle.IsElectric() {
		t.Error("Expected a car not to be electric")
	}
}

func TestNewElectricVehicle(t *testing.T) {
	vehicle, err := NewElectricVehicle("bike", "EV0001", "Zero", "SR", "Black", 75)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	if vehicle.Kind != KindElectricBike {
		t.Errorf("Expected kind %s, got %s", KindElectricBike, vehicle.Kind)
	}
	if vehicle.ChargePercent != 75 {
		t.Errorf("Expected charge 75, got %d", vehicle.ChargePercent)
	}
	if !vehicle.IsElectric() {
		t.Error("Expected an electric bike to be electric")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		label    string
		electric bool
		want     Kind
		wantErr  bool
	}{
		{"car", false, KindCar, false},
		{"MOTORCYCLE", false, KindMotorcycle, false},
		{"truck", false, KindTruck, false},
		{"bike", false, 0, true},
		{"car", true, KindElectricCar, false},
		{"bike", true, KindElectricBike, false},
		{"truck", true, 0, true},
		{"spaceship", false, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.label, tt.electric)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedKind) {
				t.Errorf("ParseKind(%q, %v): expected ErrUnsupportedKind, got %v", tt.label, tt.electric, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q, %v): unexpected error %v", tt.label, tt.electric, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q, %v) = %s, want %s", tt.label, tt.electric, got, tt.want)
		}
	}
}

func TestVehicleType(t *testing.T) {
	names := map[Kind]string{
		KindCar:          "Car",
		KindMotorcycle:   "Motorcycle",
		KindTruck:        "Truck",
		KindElectricCar:  "ElectricCar",
		KindElectricBike: "ElectricBike",
	}

	for kind, name := range names {
		v := &Vehicle{Kind: kind}
		if v.Type() != name {
			t.Errorf("Expected type %s, got %s", name, v.Type())
		}
	}

	if Kind(99).String() != "Unknown" {
		t.Errorf("Expected Unknown for out of range kind, got %s", Kind(99))
	}
}

func TestNewVehicleUnsupportedKind(t *testing.T) {
	if _, err := NewVehicle("hovercraft", "X1", "", "", ""); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Expected ErrUnsupportedKind, got %v", err)
	}
	if _, err := NewElectricVehicle("truck", "X1", "", "", "", 0); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Expected ErrUnsupportedKind, got %v", err)
	}
}
