package strategy

const (
	FiboShallow   = 0.382
	FiboDeep      = 0.618
	FiboExtension = 0.618
)

// Band: золотая зона коррекции [Lower, Upper].
type Band struct {
	Lower float64
	Upper float64
}

// Contains включает обе границы.
func (b Band) Contains(price float64) bool {
	return price >= b.Lower && price <= b.Upper
}

// RetracementBand: зона 38.2%–61.8% отката от хая волны.
func RetracementBand(leg Leg) Band {
	r := leg.Range()
	return Band{
		Lower: leg.High.Price - r*FiboDeep,
		Upper: leg.High.Price - r*FiboShallow,
	}
}

// ExtensionTarget: тейк за хаем волны на 61.8% её высоты.
func ExtensionTarget(leg Leg) float64 {
	return leg.High.Price + leg.Range()*FiboExtension
}
