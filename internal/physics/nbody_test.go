package physics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/geom"
)

func twoBodies(t *testing.T) *Bodies {
	t.Helper()
	bs := NewBodies()
	if _, err := bs.Add(1, geom.NewPoint(-1, 0), geom.NewVector(0, -0.5)); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Add(3, geom.NewPoint(1, 0), geom.NewVector(0, 0.5)); err != nil {
		t.Fatal(err)
	}
	return bs
}

func TestMomentum(t *testing.T) {
	bs := twoBodies(t)
	px, py := Momentum(bs.Particles(), bs.Velocities())
	if px != 0 || py != 1.0 {
		t.Errorf("Momentum = (%v, %v), want (0, 1)", px, py)
	}
}

func TestAngularMomentum(t *testing.T) {
	bs := twoBodies(t)
	// (-1,0) x (0,-0.5) * 1 = 0.5 ; (1,0) x (0,0.5) * 3 = 1.5
	if got := AngularMomentum(bs.Particles(), bs.Velocities()); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("AngularMomentum = %v, want 2", got)
	}
}

func TestCenterOfMass(t *testing.T) {
	bs := twoBodies(t)
	com, total := CenterOfMass(bs.Particles())
	if total != 4 {
		t.Errorf("total mass = %v, want 4", total)
	}
	if math.Abs(com.X-0.5) > 1e-12 || com.Y != 0 {
		t.Errorf("center of mass = %v, want (0.5, 0)", com)
	}

	if _, total := CenterOfMass(nil); total != 0 {
		t.Error("empty set should have zero mass")
	}
}

func TestPotentialEnergy(t *testing.T) {
	bs := twoBodies(t)

	unsoftened := PotentialEnergy(bs.Particles(), 1.0, 0)
	if math.Abs(unsoftened-(-1.5)) > 1e-12 {
		t.Errorf("unsoftened PE = %v, want -1.5", unsoftened)
	}

	softened := PotentialEnergy(bs.Particles(), 1.0, 1e-3)
	if math.Abs(softened-unsoftened) > 1e-3 {
		t.Errorf("softened PE %v too far from %v", softened, unsoftened)
	}
	if softened <= unsoftened {
		t.Errorf("softening should raise the potential: %v <= %v", softened, unsoftened)
	}
}

func TestEnergy(t *testing.T) {
	bs := twoBodies(t)
	ke := KineticEnergy(bs.Particles(), bs.Velocities())
	if math.Abs(ke-0.5) > 1e-12 {
		t.Errorf("KE = %v, want 0.5", ke)
	}
	e := Energy(bs.Particles(), bs.Velocities(), 1.0, 0)
	if math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("E = %v, want -1", e)
	}
}
