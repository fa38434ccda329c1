package ff

import (
	"errors"
	"math"
	"strings"
	"testing"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/units"
	"gonum.org/v1/gonum/unit"
)

func TestReadForceField(Te *testing.T) {
	F, err := LoadForceField("../testdata/forcefield.toml")
	if err != nil {
		Te.Fatal(err)
	}
	if F.Name != "govdw-test" || F.Len() != 11 {
		Te.Fatalf("wrong force field %s with %d types", F.Name, F.Len())
	}
	n1 := F.Types()[0]
	want := 0.6 * 2 / math.Pow(2, 1.0/6.0)
	if n1.ID != "n1" || math.Abs(float64(n1.Sigma/units.Angstrom)-want) > 1e-12 {
		Te.Errorf("wrong sigma from rmin_half: %g A, want %g A", float64(n1.Sigma/units.Angstrom), want)
	}
	if math.Abs(n1.Epsilon.In(units.KcalPerMol)-0.0157) > 1e-12 {
		Te.Errorf("wrong epsilon %v", n1.Epsilon)
	}
	ar := F.Types()[10]
	if math.Abs(float64(ar.Sigma/units.Angstrom)-3.405) > 1e-12 {
		Te.Errorf("sigma given directly should be kept, got %g", float64(ar.Sigma/units.Angstrom))
	}
}

func TestReadForceFieldErrors(Te *testing.T) {
	cases := map[string]string{
		"no epsilon": "[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = 3.0\n",
		"both radii": "[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = 3.0\nrmin_half = 1.5\nepsilon = 0.1\n",
		"no radius":  "[[vdw.atom]]\nsmirks = \"[#6:1]\"\nepsilon = 0.1\n",
		"no smirks":  "[[vdw.atom]]\nsigma = 3.0\nepsilon = 0.1\n",
	}
	for name, doc := range cases {
		if _, err := ReadForceField(strings.NewReader(doc)); !errors.Is(err, ErrMissingParameter) {
			Te.Errorf("%s: expected ErrMissingParameter, got %v", name, err)
		}
	}
	others := map[string]string{
		"bad unit":   "[vdw]\nlength_unit = \"furlong\"\n[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = 3.0\nepsilon = 0.1\n",
		"repeated":   "[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = 3.0\nepsilon = 0.1\n[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = 3.0\nepsilon = 0.1\n",
		"bad smirks": "[[vdw.atom]]\nsmirks = \"c1ccccc1\"\nsigma = 3.0\nepsilon = 0.1\n",
		"negative":   "[[vdw.atom]]\nsmirks = \"[#6:1]\"\nsigma = -3.0\nepsilon = 0.1\n",
		"empty":      "name = \"nothing\"\n",
		"not toml":   "[[vdw.atom\n",
	}
	for name, doc := range others {
		if _, err := ReadForceField(strings.NewReader(doc)); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
}

func ethanol(Te *testing.T) *chem.Molecule {
	mol, err := chem.XYZFileRead("../testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestNewSystem(Te *testing.T) {
	F, err := LoadForceField("../testdata/forcefield.toml")
	if err != nil {
		Te.Fatal(err)
	}
	mol := ethanol(Te)
	sys, err := NewSystem(mol, 0, F)
	if err != nil {
		Te.Fatal(err)
	}
	if sys.NAtoms() != 9 || sys.LengthUnit != units.Angstrom {
		Te.Fatalf("wrong system: %d atoms, length unit %v", sys.NAtoms(), sys.LengthUnit)
	}
	term, err := sys.TermCollection.Term(VdWTerm)
	if err != nil {
		Te.Fatal(err)
	}
	wantIDs := []string{"n17", "n17", "n20", "n12", "n2", "n2", "n2", "n3", "n3"}
	slots, err := sys.Slots(VdWTerm)
	if err != nil {
		Te.Fatal(err)
	}
	if len(slots) != 9 {
		Te.Fatalf("expected 9 slots, got %d", len(slots))
	}
	for i, s := range slots {
		if s.Atom(0) != i {
			Te.Errorf("slots not sorted: %v", slots)
		}
		p, err := term.Potential(s)
		if err != nil {
			Te.Fatal(err)
		}
		if p.ID != wantIDs[i] {
			Te.Errorf("atom %d typed %s, want %s", i, p.ID, wantIDs[i])
		}
		if sys.SlotSmirksMap[VdWTerm][s] != p.Smirks {
			Te.Errorf("slot map and term disagree for %v", s)
		}
	}
	if len(term.Potentials) != 5 || len(term.Keys()) != 5 {
		Te.Errorf("expected the 5 potentials in use, got %d", len(term.Potentials))
	}
	sys.Positions.Set(0, 0, 100)
	if mol.Coords[0].At(0, 0) == 100 {
		Te.Error("the system should have its own copy of the positions")
	}
	if _, err := NewSystem(mol, 1, F); err == nil {
		Te.Error("expected an error for a frame out of range")
	}
	sys.SlotSmirksMap[VdWTerm][Slot{}] = ""
	if err := sys.Validate(); err == nil {
		Te.Error("a slot without atoms should not validate")
	}
}

func TestNewSystemUnits(Te *testing.T) {
	F, err := LoadForceField("../testdata/forcefield.toml")
	if err != nil {
		Te.Fatal(err)
	}
	mol := ethanol(Te)
	mol.Coords[0].Scale(0.1, mol.Coords[0].Dense)
	sys, err := NewSystem(mol, 0, F, CoordUnit(units.Nanometre), ReassignBonds())
	if err != nil {
		Te.Fatal(err)
	}
	if sys.LengthUnit != units.Nanometre {
		Te.Errorf("wrong length unit %v", sys.LengthUnit)
	}
	if n := len(mol.Atom(0).Bonds); n != 4 {
		Te.Errorf("bonds should be assigned in Angstrom, carbon got %d", n)
	}
}

func TestUnassigned(Te *testing.T) {
	F := NewForceField("carbon only")
	if err := F.AddType("c", "[#6:1]", 3.4*units.Angstrom, 0.1*units.KcalPerMol); err != nil {
		Te.Fatal(err)
	}
	_, err := NewSystem(ethanol(Te), 0, F)
	if !errors.Is(err, ErrUnassignedAtom) {
		Te.Errorf("expected ErrUnassignedAtom, got %v", err)
	}
}

func TestModelErrors(Te *testing.T) {
	tc := NewTermCollection(NewTerm("Bonds"))
	if _, err := tc.Term(VdWTerm); !errors.Is(err, ErrNoTerm) {
		Te.Errorf("expected ErrNoTerm, got %v", err)
	}
	var nilTC *TermCollection
	if _, err := nilTC.Term(VdWTerm); !errors.Is(err, ErrNoTerm) {
		Te.Errorf("expected ErrNoTerm, got %v", err)
	}
	t := NewTerm(VdWTerm)
	if _, err := t.Potential(NewSlot(0)); !errors.Is(err, ErrMissingParameter) {
		Te.Errorf("expected ErrMissingParameter, got %v", err)
	}
	t.SmirksMap[NewSlot(0)] = "[#6:1]"
	if _, err := t.Potential(NewSlot(0)); !errors.Is(err, ErrMissingParameter) {
		Te.Errorf("expected ErrMissingParameter, got %v", err)
	}
	p := NewLJPotential("x", "[#6:1]", 3*units.Angstrom, units.KJPerMol)
	p.Parameters[Epsilon] = unit.New(1, unit.Dimensions{unit.LengthDim: 1})
	if _, _, err := p.LJ(); !errors.Is(err, units.ErrDimension) {
		Te.Errorf("expected ErrDimension, got %v", err)
	}
	delete(p.Parameters, Sigma)
	if _, err := p.Length(Sigma); !errors.Is(err, ErrMissingParameter) {
		Te.Errorf("expected ErrMissingParameter, got %v", err)
	}
	sys := &System{}
	if _, err := sys.Slots(VdWTerm); !errors.Is(err, ErrNoTerm) {
		Te.Errorf("expected ErrNoTerm, got %v", err)
	}
}

func TestSlot(Te *testing.T) {
	s := NewSlot(3, 1)
	if s.Len() != 2 || s.Atom(1) != 1 || s.String() != "(3,1)" {
		Te.Errorf("wrong slot %v", s)
	}
	slots := SortSlots([]Slot{NewSlot(2), NewSlot(1, 5), NewSlot(1), NewSlot(0)})
	if slots[0] != NewSlot(0) || slots[1] != NewSlot(1) || slots[2] != NewSlot(1, 5) {
		Te.Errorf("wrong order %v", slots)
	}
	m := map[Slot]string{NewSlot(1): "a"}
	if m[NewSlot(1)] != "a" {
		Te.Error("equal slots should be the same map key")
	}
	defer func() {
		if recover() == nil {
			Te.Error("expected a panic for an atom out of range")
		}
	}()
	s.Atom(2)
}
