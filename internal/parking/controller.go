package parking

// Controller owns one Lot and the active Strategy. It forwards calls and holds
// no allocation policy of its own.
type Controller struct {
	lot      *Lot
	strategy Strategy
}

func NewController(lot *Lot, strategy Strategy) *Controller {
	if lot == nil {
		lot = NewLot(1, 0, 0)
	}
	if strategy == nil {
		strategy = RegularFirstStrategy{}
	}
	return &Controller{
		lot:      lot,
		strategy: strategy,
	}
}

// Configure resets the lot. All parked vehicles are dropped.
func (c *Controller) Configure(level, regularCapacity, evCapacity int) {
	c.lot.Reset(level, regularCapacity, evCapacity)
}

func (c *Controller) Park(vehicle *Vehicle) (int, bool) {
	return c.strategy.Allocate(c.lot, vehicle)
}

// ParkElectric parks through the EV pool for this call only; the active
// strategy is restored afterwards.
func (c *Controller) ParkElectric(vehicle *Vehicle) (int, bool) {
	previous := c.strategy
	c.strategy = ElectricOnlyStrategy{}
	defer func() { c.strategy = previous }()

	return c.Park(vehicle)
}

// ParkRouted chooses the strategy from the vehicle kind and leaves the
// active strategy untouched.
func (c *Controller) ParkRouted(vehicle *Vehicle) (int, bool) {
	return StrategyForVehicle(vehicle).Allocate(c.lot, vehicle)
}

func (c *Controller) Leave(slotNumber int, electric bool) bool {
	return c.lot.Leave(slotNumber, PoolFor(electric))
}

func (c *Controller) SetStrategy(strategy Strategy) {
	if strategy == nil {
		strategy = RegularFirstStrategy{}
	}
	c.strategy = strategy
}

func (c *Controller) Strategy() Strategy {
	return c.strategy
}

func (c *Controller) Lot() *Lot {
	return c.lot
}
