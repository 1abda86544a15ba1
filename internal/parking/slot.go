package parking

type Pool int

const (
	PoolRegular Pool = iota
	PoolElectric
)

func PoolFor(electric bool) Pool {
	if electric {
		return PoolElectric
	}
	return PoolRegular
}

func (p Pool) String() string {
	if p == PoolElectric {
		return "ev"
	}
	return "regular"
}

type Slot struct {
	Index    int
	Electric bool
	Vehicle  *Vehicle
}

func NewSlot(index int, electric bool) *Slot {
	return &Slot{
		Index:    index,
		Electric: electric,
	}
}

func (s *Slot) IsEmpty() bool {
	return s.Vehicle == nil
}

// Number is the one-based slot number shown outside the lot.
func (s *Slot) Number() int {
	return slotNumberFromIndex(s.Index)
}

// SlotView is a read-only copy of a slot handed out by Lot queries.
type SlotView struct {
	Number   int
	Pool     Pool
	Occupied bool
	Vehicle  Vehicle
}

func (s *Slot) view() SlotView {
	v := SlotView{
		Number:   s.Number(),
		Pool:     PoolFor(s.Electric),
		Occupied: !s.IsEmpty(),
	}
	if s.Vehicle != nil {
		v.Vehicle = *s.Vehicle
	}
	return v
}
