package parking

type Kind int

const (
	KindCar Kind = iota
	KindMotorcycle
	KindTruck
	KindElectricCar
	KindElectricBike
)

var kindNames = map[Kind]string{
	KindCar:          "Car",
	KindMotorcycle:   "Motorcycle",
	KindTruck:        "Truck",
	KindElectricCar:  "ElectricCar",
	KindElectricBike: "ElectricBike",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsElectric reports whether vehicles of this kind belong in the EV pool.
func (k Kind) IsElectric() bool {
	return k == KindElectricCar || k == KindElectricBike
}

// Vehicle is treated as immutable once built. ChargePercent only carries
// meaning for electric kinds.
type Vehicle struct {
	Kind               Kind
	RegistrationNumber string
	Make               string
	Model              string
	Color              string
	ChargePercent      int
}

func (v *Vehicle) Type() string {
	return v.Kind.String()
}

func (v *Vehicle) IsElectric() bool {
	return v.Kind.IsElectric()
}
