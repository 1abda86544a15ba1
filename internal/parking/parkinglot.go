package parking

// Lot holds a regular pool and an EV pool of slots on one level. It is not
// safe for concurrent use; InstrumentedController serializes access to it.
type Lot struct {
	Level           int
	RegularCapacity int
	EVCapacity      int

	regular []*Slot
	ev      []*Slot
}

func NewLot(level, regularCapacity, evCapacity int) *Lot {
	lot := &Lot{}
	lot.Reset(level, regularCapacity, evCapacity)
	return lot
}

// Reset replaces both pools with fresh empty ones. Existing occupancy is
// discarded.
func (l *Lot) Reset(level, regularCapacity, evCapacity int) {
	l.Level = level
	l.RegularCapacity = regularCapacity
	l.EVCapacity = evCapacity
	l.regular = newSlots(regularCapacity, false)
	l.ev = newSlots(evCapacity, true)
}

func newSlots(capacity int, electric bool) []*Slot {
	slots := make([]*Slot, capacity)
	for i := 0; i < capacity; i++ {
		slots[i] = NewSlot(i, electric)
	}
	return slots
}

func slotNumberFromIndex(index int) int {
	return index + 1
}

func indexFromSlotNumber(slotNumber int) int {
	return slotNumber - 1
}

func (l *Lot) pool(p Pool) []*Slot {
	if p == PoolElectric {
		return l.ev
	}
	return l.regular
}

// FirstEmpty returns the lowest free zero-based index in the pool.
func (l *Lot) FirstEmpty(p Pool) (int, bool) {
	for _, slot := range l.pool(p) {
		if slot.IsEmpty() {
			return slot.Index, true
		}
	}
	return 0, false
}

// ParkIn puts the vehicle in the first free slot of the pool and returns its
// one-based slot number. ok is false when the pool has no free slot.
func (l *Lot) ParkIn(p Pool, vehicle *Vehicle) (int, bool) {
	idx, ok := l.FirstEmpty(p)
	if !ok {
		return 0, false
	}

	l.pool(p)[idx].Vehicle = vehicle
	return slotNumberFromIndex(idx), true
}

// Leave frees the slot with the given one-based number. It returns false,
// without changing anything, for unknown or already empty slots.
func (l *Lot) Leave(slotNumber int, p Pool) bool {
	slots := l.pool(p)
	idx := indexFromSlotNumber(slotNumber)
	if idx < 0 || idx >= len(slots) {
		return false
	}

	slot := slots[idx]
	if slot.IsEmpty() {
		return false
	}

	slot.Vehicle = nil
	return true
}

func (l *Lot) Capacity(p Pool) int {
	return len(l.pool(p))
}

func (l *Lot) OccupiedCount(p Pool) int {
	count := 0
	for _, slot := range l.pool(p) {
		if !slot.IsEmpty() {
			count++
		}
	}
	return count
}

func (l *Lot) Slots(p Pool) []SlotView {
	slots := l.pool(p)
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, slot.view())
	}
	return views
}

// Occupied lists occupied slots, regular pool first, each pool in slot order.
func (l *Lot) Occupied() []SlotView {
	var occupied []SlotView
	for _, p := range []Pool{PoolRegular, PoolElectric} {
		for _, slot := range l.pool(p) {
			if !slot.IsEmpty() {
				occupied = append(occupied, slot.view())
			}
		}
	}
	return occupied
}

func (l *Lot) FindByRegistration(registrationNumber string) (SlotView, bool) {
	for _, p := range []Pool{PoolRegular, PoolElectric} {
		for _, slot := range l.pool(p) {
			if !slot.IsEmpty() && slot.Vehicle.RegistrationNumber == registrationNumber {
				return slot.view(), true
			}
		}
	}
	return SlotView{}, false
}
