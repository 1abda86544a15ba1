package parking

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedKind = errors.New("unsupported vehicle kind")

// ParseKind maps a user supplied label to a Kind. Regular labels are car,
// motorcycle and truck; electric labels are car and bike.
func ParseKind(label string, electric bool) (Kind, error) {
	k := strings.ToLower(strings.TrimSpace(label))

	if electric {
		switch k {
		case "car":
			return KindElectricCar, nil
		case "bike":
			return KindElectricBike, nil
		}
		return 0, fmt.Errorf("%w: electric %s", ErrUnsupportedKind, label)
	}

	switch k {
	case "car":
		return KindCar, nil
	case "motorcycle":
		return KindMotorcycle, nil
	case "truck":
		return KindTruck, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, label)
}

func NewVehicle(kind, registrationNumber, brand, model, color string) (*Vehicle, error) {
	k, err := ParseKind(kind, false)
	if err != nil {
		return nil, err
	}

	return &Vehicle{
		Kind:               k,
		RegistrationNumber: registrationNumber,
		Make:               brand,
		Model:              model,
		Color:              color,
	}, nil
}

func NewElectricVehicle(kind, registrationNumber, brand, model, color string, chargePercent int) (*Vehicle, error) {
	k, err := ParseKind(kind, true)
	if err != nil {
		return nil, err
	}

	return &Vehicle{
		Kind:               k,
		RegistrationNumber: registrationNumber,
		Make:               brand,
		Model:              model,
		Color:              color,
		ChargePercent:      chargePercent,
	}, nil
}
