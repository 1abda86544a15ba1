package parking

import (
	"errors"
	"fmt"
)

var ErrUnknownStrategy = errors.New("unknown allocation strategy")

const (
	StrategyRegularFirst = "regular_first"
	StrategyElectricOnly = "electric_only"
)

// Strategy decides which pool of the lot a vehicle is parked in. Strategies
// keep no state between calls, so they can be swapped at any time.
type Strategy interface {
	Allocate(lot *Lot, vehicle *Vehicle) (int, bool)
	Name() string
}

// RegularFirstStrategy always searches the regular pool, whatever the vehicle
// kind.
type RegularFirstStrategy struct{}

func (RegularFirstStrategy) Allocate(lot *Lot, vehicle *Vehicle) (int, bool) {
	return lot.ParkIn(PoolRegular, vehicle)
}

func (RegularFirstStrategy) Name() string {
	return StrategyRegularFirst
}

// ElectricOnlyStrategy always searches the EV pool. It does not check the
// vehicle kind; callers route electric vehicles to it.
type ElectricOnlyStrategy struct{}

func (ElectricOnlyStrategy) Allocate(lot *Lot, vehicle *Vehicle) (int, bool) {
	return lot.ParkIn(PoolElectric, vehicle)
}

func (ElectricOnlyStrategy) Name() string {
	return StrategyElectricOnly
}

func StrategyByName(name string) (Strategy, error) {
	switch name {
	case StrategyRegularFirst:
		return RegularFirstStrategy{}, nil
	case StrategyElectricOnly:
		return ElectricOnlyStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// StrategyForVehicle picks the strategy matching the vehicle kind.
func StrategyForVehicle(vehicle *Vehicle) Strategy {
	if vehicle.IsElectric() {
		return ElectricOnlyStrategy{}
	}
	return RegularFirstStrategy{}
}
