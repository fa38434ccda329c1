package top

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"github.com/rmera/govdw/vdw"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestReadFile(Te *testing.T) {
	F, err := ReadFile("../testdata/ethanol.top", true)
	if err != nil {
		Te.Fatal(err)
	}
	if len(F.ATypes) != 5 || len(F.Atoms) != 9 || len(F.Bonds) != 8 {
		Te.Fatalf("read %d types, %d atoms, %d bonds", len(F.ATypes), len(F.Atoms), len(F.Bonds))
	}
	if F.CombRule != 2 || !F.SigmaEpsilon {
		Te.Errorf("wrong defaults: comb-rule %d", F.CombRule)
	}
	n3, ok := F.Type("n3")
	if !ok || n3.Sigma != 0.247135304 || n3.AtNum != 1 {
		Te.Errorf("wrong n3 type %+v", n3)
	}
	if F.Bonds[2] != [2]int{2, 3} {
		Te.Errorf("wrong third bond %v", F.Bonds[2])
	}
	top := F.Topology()
	if top.Atom(0).Symbol != "C" || top.Atom(2).Symbol != "O" || top.Atom(8).Symbol != "H" {
		Te.Errorf("wrong symbols %s %s %s", top.Atom(0).Symbol, top.Atom(2).Symbol, top.Atom(8).Symbol)
	}
	if len(top.Atom(0).Bonds) != 4 || len(top.Atom(3).Bonds) != 1 {
		Te.Errorf("wrong bonds: %d for C1 and %d for HO", len(top.Atom(0).Bonds), len(top.Atom(3).Bonds))
	}
	if top.Atom(4).Mass != 1.008 || top.Charge() != 0 {
		Te.Errorf("mass of H11 %f, total charge %d", top.Atom(4).Mass, top.Charge())
	}
}

func TestDefines(Te *testing.T) {
	F, err := ReadFile("../testdata/ethanol.top", true, "NO_H_LJ")
	if err != nil {
		Te.Fatal(err)
	}
	if n3, _ := F.Type("n3"); n3.Epsilon != 0 || n3.Sigma != 0 {
		Te.Errorf("the NO_H_LJ branch should have been read, got %+v", n3)
	}
	if len(F.ATypes) != 5 {
		Te.Errorf("only one branch should be read, got %d types", len(F.ATypes))
	}
	F, err = ReadFile("../testdata/ethanol.top", false)
	if err != nil {
		Te.Fatal(err)
	}
	if len(F.ATypes) != 0 || len(F.Atoms) != 9 {
		Te.Errorf("includes should not be followed, got %d types", len(F.ATypes))
	}
	if _, err := F.System(v3.Zeros(9), units.Angstrom); !errors.Is(err, ff.ErrMissingParameter) {
		Te.Errorf("expected ErrMissingParameter for atoms without types, got %v", err)
	}
}

// The Gromacs topology has the same parameters as forcefield.toml, so both
// routes must give the same energy.
func TestSystemMatchesForceField(Te *testing.T) {
	mol, err := chem.XYZFileRead("../testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	field, err := ff.LoadForceField("../testdata/forcefield.toml")
	if err != nil {
		Te.Fatal(err)
	}
	sys1, err := ff.NewSystem(mol, 0, field)
	if err != nil {
		Te.Fatal(err)
	}
	F, err := ReadFile("../testdata/ethanol.top", true)
	if err != nil {
		Te.Fatal(err)
	}
	sys2, err := F.System(mol.Coords[0], units.Angstrom)
	if err != nil {
		Te.Fatal(err)
	}
	if keys := sys2.TermCollection.Terms[ff.VdWTerm].Keys(); strings.Join(keys, " ") != "n12 n17 n2 n20 n3" {
		Te.Errorf("potentials should be keyed by type name, got %v", keys)
	}
	e1, err := vdw.ComputeVdW(sys1)
	if err != nil {
		Te.Fatal(err)
	}
	e2, err := vdw.ComputeVdW(sys2)
	if err != nil {
		Te.Fatal(err)
	}
	if !relClose(float64(e1), float64(e2), 1e-6) {
		Te.Errorf("energies differ: %v from the force field, %v from the topology", e1, e2)
	}
}

const argonC6C12 = `[ defaults ]
1 1 no 1.0 1.0

[ atomtypes ]
AR  18  39.948  0.0  A  6.207708593e-03  9.674622304e-06

[ moleculetype ]
AR2 1

[ atoms ]
1 AR 1 AR2 AR1 1 0.0
2 AR 1 AR2 AR2 2 0.0
`

func TestC6C12(Te *testing.T) {
	F := NewFF()
	if err := F.Fill(bufio.NewReader(strings.NewReader(argonC6C12)), false); err != nil {
		Te.Fatal(err)
	}
	ar, _ := F.Type("AR")
	if !relClose(ar.Sigma, 0.3405, 1e-8) || !relClose(ar.Epsilon, 0.995792, 1e-8) {
		Te.Errorf("wrong conversion from C6/C12: sigma %g epsilon %g", ar.Sigma, ar.Epsilon)
	}
	rmin := math.Pow(2, 1.0/6.0) * 3.405
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, rmin, 0, 0})
	sys, err := F.System(coords, units.Angstrom)
	if err != nil {
		Te.Fatal(err)
	}
	if sys.Topology.Atom(1).Symbol != "Ar" {
		Te.Errorf("symbol should come from the atomic number, got %s", sys.Topology.Atom(1).Symbol)
	}
	e, err := vdw.ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if !relClose(e.In(units.KJPerMol), -2*0.995792, 1e-7) {
		Te.Errorf("wrong energy at the minimum: %v", e)
	}
	//written back in C6/C12 and read again.
	var buf bytes.Buffer
	if err := F.WriteAtomTypes(&buf); err != nil {
		Te.Fatal(err)
	}
	G := NewFF()
	if err := G.Fill(&buf, false); err != nil {
		Te.Fatal(err)
	}
	if ar2, ok := G.Type("AR"); !ok || G.CombRule != 1 || !relClose(ar2.Sigma, ar.Sigma, 1e-6) || ar2.AtNum != 18 {
		Te.Errorf("atom type not written correctly:\n%s", buf.String())
	}
}

func TestFillErrors(Te *testing.T) {
	cases := map[string]string{
		"buckingham":   "[ defaults ]\n2 1\n",
		"comb-rule":    "[ defaults ]\n1 7\n",
		"open ifdef":   "#ifdef A\n[ atoms ]\n",
		"lone endif":   "#endif\n",
		"bad ptype":    "[ atomtypes ]\nC 12.0 0.0 X 0.3 0.4\n",
		"short type":   "[ atomtypes ]\nC 12.0 0.0 A 0.3\n",
		"sequence":     "[ atoms ]\n2 C 1 RES C1 1 0.0\n",
		"bond range":   "[ atoms ]\n1 C 1 RES C1 1 0.0\n[ bonds ]\n1 2 1\n",
		"bad charge":   "[ atoms ]\n1 C 1 RES C1 1 zero\n",
		"missing file": "#include \"nothere.itp\"\n",
	}
	for name, doc := range cases {
		F := NewFF()
		if err := F.Fill(bufio.NewReader(strings.NewReader(doc)), true); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
	F := NewFF()
	if err := F.Fill(bufio.NewReader(strings.NewReader("[ defaults ]\n2 1\n")), false); !errors.Is(err, ErrUnsupported) {
		Te.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestSecondMolecule(Te *testing.T) {
	doc := argonC6C12 + "\n[ moleculetype ]\nAR3 1\n[ atoms ]\n1 AR 1 AR3 AR1 1 0.0\n2 AR 1 AR3 AR2 1 0.0\n[ bonds ]\n1 2 1\n"
	F := NewFF()
	if err := F.Fill(bufio.NewReader(strings.NewReader(doc)), false); err != nil {
		Te.Fatal(err)
	}
	if len(F.Atoms) != 4 || len(F.Bonds) != 1 || F.Bonds[0] != [2]int{2, 3} {
		Te.Errorf("bonds should be offset to the atoms of their molecule, got %v", F.Bonds)
	}
}
