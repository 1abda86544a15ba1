package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyPoolIsolation(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		pool     Pool
		other    Pool
	}{
		{"RegularFirst", RegularFirstStrategy{}, PoolRegular, PoolElectric},
		{"ElectricOnly", ElectricOnlyStrategy{}, PoolElectric, PoolRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := NewLot(1, 3, 3)

			// Regardless of vehicle kind, a strategy only touches its own pool.
			for _, v := range []*Vehicle{car("C1"), electricCar("E1"), car("C2"), electricCar("E2"), car("C3")} {
				tt.strategy.Allocate(lot, v)
			}

			assert.Equal(t, 3, lot.OccupiedCount(tt.pool))
			assert.Equal(t, 0, lot.OccupiedCount(tt.other), "strategy must never occupy the other pool")
		})
	}
}

func TestStrategyCapacityInvariant(t *testing.T) {
	for _, strategy := range []Strategy{RegularFirstStrategy{}, ElectricOnlyStrategy{}} {
		t.Run(strategy.Name(), func(t *testing.T) {
			lot := NewLot(1, 4, 2)

			allocated := 0
			for i := 0; i < 50; i++ {
				if _, ok := strategy.Allocate(lot, electricCar("E")); ok {
					allocated++
				}
				require.LessOrEqual(t, lot.OccupiedCount(PoolRegular), lot.Capacity(PoolRegular))
				require.LessOrEqual(t, lot.OccupiedCount(PoolElectric), lot.Capacity(PoolElectric))
			}

			if strategy.Name() == StrategyRegularFirst {
				assert.Equal(t, 4, allocated)
			} else {
				assert.Equal(t, 2, allocated)
			}
		})
	}
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName(StrategyRegularFirst)
	require.NoError(t, err)
	assert.IsType(t, RegularFirstStrategy{}, s)

	s, err = StrategyByName(StrategyElectricOnly)
	require.NoError(t, err)
	assert.IsType(t, ElectricOnlyStrategy{}, s)

	_, err = StrategyByName("cheapest")
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategyForVehicle(t *testing.T) {
	assert.Equal(t, StrategyElectricOnly, StrategyForVehicle(electricCar("E")).Name())
	assert.Equal(t, StrategyElectricOnly, StrategyForVehicle(&Vehicle{Kind: KindElectricBike}).Name())
	assert.Equal(t, StrategyRegularFirst, StrategyForVehicle(car("C")).Name())
	assert.Equal(t, StrategyRegularFirst, StrategyForVehicle(&Vehicle{Kind: KindTruck}).Name())
}

func TestElectricOnlyAcceptsRegularVehicle(t *testing.T) {
	lot := NewLot(1, 1, 1)

	slotNumber, ok := ElectricOnlyStrategy{}.Allocate(lot, car("C1"))

	require.True(t, ok)
	assert.Equal(t, 1, slotNumber)
	assert.Equal(t, 1, lot.OccupiedCount(PoolElectric))
}
