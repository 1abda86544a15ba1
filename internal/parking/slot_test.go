package parking

import "testing"

func TestNewSlot(t *testing.T) {
	slot := NewSlot(0, true)

	if slot.Index != 0 {
		t.Errorf("Expected slot index 0, got %d", slot.Index)
	}

	if !slot.Electric {
		t.Error("Expected slot to be electric")
	}

	if !slot.IsEmpty() {
		t.Error("Expected new slot to be empty")
	}

	if slot.Number() != 1 {
		t.Errorf("Expected slot number 1, got %d", slot.Number())
	}
}

func TestSlotIsEmpty(t *testing.T) {
	slot := NewSlot(2, false)
	slot.Vehicle = &Vehicle{Kind: KindCar, RegistrationNumber: "KA01HH1234"}

	if slot.IsEmpty() {
		t.Error("Expected slot with a vehicle to be occupied")
	}

	slot.Vehicle = nil
	if !slot.IsEmpty() {
		t.Error("Expected slot to be empty after clearing the vehicle")
	}
}

func TestSlotView(t *testing.T) {
	vehicle := &Vehicle{Kind: KindElectricCar, RegistrationNumber: "EV1", Color: "White", ChargePercent: 40}
	slot := NewSlot(4, true)
	slot.Vehicle = vehicle

	view := slot.view()

	if view.Number != 5 {
		t.Errorf("Expected slot number 5, got %d", view.Number)
	}
	if view.Pool != PoolElectric {
		t.Errorf("Expected pool %s, got %s", PoolElectric, view.Pool)
	}
	if !view.Occupied {
		t.Error("Expected view to be occupied")
	}
	if view.Vehicle != *vehicle {
		t.Errorf("Expected vehicle %+v, got %+v", *vehicle, view.Vehicle)
	}
}
