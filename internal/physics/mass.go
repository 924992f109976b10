package physics

import (
	"fmt"
	"strconv"
)

// Mass can only hold a positive value. The zero Mass is not valid; obtain
// one from NewMass.
type Mass struct {
	v float64
}

func NewMass(m float64) (Mass, error) {
	// written so that NaN is rejected too
	if !(m > 0) {
		return Mass{}, fmt.Errorf("%w, got %v", ErrNonPositiveMass, m)
	}
	return Mass{v: m}, nil
}

// MustMass is NewMass for literals known to be valid. It panics otherwise.
func MustMass(m float64) Mass {
	mass, err := NewMass(m)
	if err != nil {
		panic(err)
	}
	return mass
}

func (m Mass) Value() float64 { return m.v }

func (m Mass) String() string { return strconv.FormatFloat(m.v, 'g', -1, 64) }
