package vdw

import (
	"errors"
	"fmt"
	"math"
	"testing"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/unit"
)

var minimum = math.Pow(2, 1.0/6.0)

// ljSystem builds a system with one vdW slot per atom, and one potential per slot.
func ljSystem(Te *testing.T, coords []float64, lu unit.Length, sig []unit.Length, eps []units.MolarEnergy) *ff.System {
	pos, err := v3.NewMatrix(coords)
	if err != nil {
		Te.Fatal(err)
	}
	n := pos.NVecs()
	ats := make([]*chem.Atom, n)
	term := ff.NewTerm(ff.VdWTerm)
	slots := make(map[ff.Slot]string, n)
	for i := range ats {
		ats[i] = &chem.Atom{Symbol: "Ar"}
		key := fmt.Sprintf("type%d", i)
		term.Potentials[key] = ff.NewLJPotential(key, key, sig[i], eps[i])
		s := ff.NewSlot(i)
		term.SmirksMap[s] = key
		slots[s] = key
	}
	return &ff.System{
		Positions:      pos,
		LengthUnit:     lu,
		Topology:       chem.NewTopology(0, 1, ats),
		SlotSmirksMap:  map[string]map[ff.Slot]string{ff.VdWTerm: slots},
		TermCollection: ff.NewTermCollection(term),
	}
}

func same(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestGetDistance(Te *testing.T) {
	a, _ := v3.NewMatrix([]float64{1, 2, 3})
	b, _ := v3.NewMatrix([]float64{4, 6, 3})
	if d := GetDistance(a, b); d != 5 {
		Te.Errorf("distance should be 5, got %f", d)
	}
	if d := GetDistance(a, a); d != 0 {
		Te.Errorf("distance of a point to itself should be 0, got %f", d)
	}
}

func TestDistanceMatrix(Te *testing.T) {
	sig := []unit.Length{units.Angstrom, units.Angstrom, units.Angstrom}
	eps := []units.MolarEnergy{units.KJPerMol, units.KJPerMol, units.KJPerMol}
	sys := ljSystem(Te, []float64{0, 0, 0, 3, 0, 0, 0, 4, 0}, units.Angstrom, sig, eps)
	d, err := BuildDistanceMatrix(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := d.Dims(); r != 3 || c != 3 {
		Te.Fatalf("wrong dimensions %d x %d", r, c)
	}
	for i := 0; i < 3; i++ {
		if d.At(i, i) != 0 {
			Te.Errorf("diagonal element %d is %f", i, d.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if d.At(i, j) != d.At(j, i) {
				Te.Errorf("matrix not symmetric at %d, %d", i, j)
			}
		}
	}
	if d.At(1, 2) != 5 {
		Te.Errorf("wrong distance %f", d.At(1, 2))
	}
	if l := d.Length(0, 2); !same(float64(l), 4e-10, 1e-12) {
		Te.Errorf("wrong length %g m", float64(l))
	}
	sys.Positions = v3.Zeros(2)
	if _, err := BuildDistanceMatrix(sys); err == nil {
		Te.Error("expected an error for positions that don't match the topology")
	}
}

func TestPairPotential(Te *testing.T) {
	sig := 3.405 * units.Angstrom
	eps := 0.238 * units.KcalPerMol
	cases := []struct {
		name string
		r    float64 //in units of sigma
		want units.MolarEnergy
	}{
		{"at sigma", 1, 0},
		{"at the minimum", minimum, -2 * eps},
	}
	for _, c := range cases {
		sys := ljSystem(Te, []float64{0, 0, 0, 0, 0, c.r * 3.405}, units.Angstrom, []unit.Length{sig, sig}, []units.MolarEnergy{eps, eps})
		e, err := ComputeVdW(sys)
		if err != nil {
			Te.Fatal(err)
		}
		if !same(float64(e), float64(c.want), 1e-9) {
			Te.Errorf("%s: energy %v, want %v", c.name, e, c.want)
		}
	}
	sys := ljSystem(Te, []float64{0, 0, 0, 0, 0, 0}, units.Angstrom, []unit.Length{sig, sig}, []units.MolarEnergy{eps, eps})
	if e, err := ComputeVdW(sys); err != nil || !math.IsInf(float64(e), 1) {
		Te.Errorf("coincident atoms should give +Inf, got %v %v", e, err)
	}
}

func TestMixing(Te *testing.T) {
	sig, eps := Mix(3*units.Angstrom, units.KJPerMol, 4*units.Angstrom, 4*units.KJPerMol)
	if !same(float64(sig/units.Angstrom), 3.5, 1e-12) || !same(eps.In(units.KJPerMol), 2, 1e-12) {
		Te.Errorf("wrong mixing: %g A %v", float64(sig/units.Angstrom), eps)
	}
	sys := ljSystem(Te, []float64{0, 0, 0, 3.5 * minimum, 0, 0}, units.Angstrom,
		[]unit.Length{3 * units.Angstrom, 4 * units.Angstrom}, []units.MolarEnergy{units.KJPerMol, 4 * units.KJPerMol})
	e, err := ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if !same(e.In(units.KJPerMol), -4, 1e-9) {
		Te.Errorf("each ordered pair should give -eps, total %v", e)
	}
}

var cluster = []float64{
	0, 0, 0,
	3.8, 0.2, 0,
	1.1, 3.6, 0.4,
	-0.7, 1.5, 3.3,
	4.2, 3.9, 2.8,
}

var clusterSig = []unit.Length{3.4 * units.Angstrom, 3.0 * units.Angstrom, 3.7 * units.Angstrom, 3.4 * units.Angstrom, 2.6 * units.Angstrom}
var clusterEps = []units.MolarEnergy{0.24 * units.KcalPerMol, 0.1 * units.KcalPerMol, 0.3 * units.KcalPerMol, 0.05 * units.KcalPerMol, 0.2 * units.KcalPerMol}

func TestRelabel(Te *testing.T) {
	e1, err := ComputeVdW(ljSystem(Te, cluster, units.Angstrom, clusterSig, clusterEps))
	if err != nil {
		Te.Fatal(err)
	}
	perm := []int{3, 0, 4, 2, 1}
	coords := make([]float64, 0, len(cluster))
	sig := make([]unit.Length, 0, len(perm))
	eps := make([]units.MolarEnergy, 0, len(perm))
	for _, p := range perm {
		coords = append(coords, cluster[3*p:3*p+3]...)
		sig = append(sig, clusterSig[p])
		eps = append(eps, clusterEps[p])
	}
	e2, err := ComputeVdW(ljSystem(Te, coords, units.Angstrom, sig, eps))
	if err != nil {
		Te.Fatal(err)
	}
	if !same(float64(e1), float64(e2), 1e-9) {
		Te.Errorf("energy changed after relabeling: %v %v", e1, e2)
	}
}

func TestTranslation(Te *testing.T) {
	sys := ljSystem(Te, append([]float64(nil), cluster...), units.Angstrom, clusterSig, clusterEps)
	e1, err := ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	shift := []float64{12.5, -3, 40}
	for i := 0; i < sys.Positions.NVecs(); i++ {
		floats.Add(sys.Positions.RawRowView(i), shift)
	}
	e2, err := ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if !same(float64(e1), float64(e2), 1e-9) {
		Te.Errorf("energy changed after a translation: %v %v", e1, e2)
	}
}

func TestUnitIndependence(Te *testing.T) {
	e1, err := ComputeVdW(ljSystem(Te, cluster, units.Angstrom, clusterSig, clusterEps))
	if err != nil {
		Te.Fatal(err)
	}
	nm := make([]float64, len(cluster))
	floats.ScaleTo(nm, 0.1, cluster)
	sys := ljSystem(Te, nm, units.Nanometre, clusterSig, clusterEps)
	//the same parameters, written in other units.
	term := sys.TermCollection.Terms[ff.VdWTerm]
	for k, p := range term.Potentials {
		sig, eps, err := p.LJ()
		if err != nil {
			Te.Fatal(err)
		}
		term.Potentials[k] = ff.NewLJPotential(k, k, unit.Length(float64(sig/units.Nanometre))*units.Nanometre, units.MolarEnergy(eps.In(units.KJPerMol))*units.KJPerMol)
	}
	e2, err := ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if !same(float64(e1), float64(e2), 1e-9) {
		Te.Errorf("energy depends on units: %v %v", e1, e2)
	}
}

func TestPairEnergies(Te *testing.T) {
	sys := ljSystem(Te, cluster, units.Angstrom, clusterSig, clusterEps)
	pairs, err := PairEnergies(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if len(pairs) != 10 {
		Te.Fatalf("5 atoms have 10 pairs, got %d", len(pairs))
	}
	var sum units.MolarEnergy
	for k, p := range pairs {
		if p.I >= p.J {
			Te.Errorf("pair %d-%d not ordered", p.I, p.J)
		}
		if k > 0 && pairs[k-1].Energy > p.Energy {
			Te.Errorf("pairs not sorted by energy")
		}
		sum += p.Energy
	}
	e, err := ComputeVdW(sys)
	if err != nil {
		Te.Fatal(err)
	}
	if !same(float64(2*sum), float64(e), 1e-9) {
		Te.Errorf("twice the pair sum (%v) should be the total energy (%v)", 2*sum, e)
	}
}

func TestOverlap(Te *testing.T) {
	sys := ljSystem(Te, cluster, units.Angstrom, clusterSig, clusterEps)
	over, pair, err := HighestOverlap(sys)
	if err != nil {
		Te.Fatal(err)
	}
	d, _ := BuildDistanceMatrix(sys)
	dist, dpair := LowestDist(d)
	if dpair[0] >= dpair[1] {
		Te.Errorf("wrong closest pair %v", dpair)
	}
	if over <= -dist {
		Te.Errorf("overlap %g can't be smaller than minus the shortest distance %g", float64(over), float64(dist))
	}
	sig, _ := Mix(clusterSig[pair[0]], clusterEps[pair[0]], clusterSig[pair[1]], clusterEps[pair[1]])
	if !same(float64(over), float64(sig-d.Length(pair[0], pair[1])), 1e-12) {
		Te.Errorf("wrong overlap %g for pair %v", float64(over), pair)
	}
}

func TestErrors(Te *testing.T) {
	sig := []unit.Length{units.Angstrom, units.Angstrom}
	eps := []units.MolarEnergy{units.KJPerMol, units.KJPerMol}
	coords := []float64{0, 0, 0, 1, 1, 1}

	sys := ljSystem(Te, coords, units.Angstrom, sig, eps)
	delete(sys.SlotSmirksMap, ff.VdWTerm)
	if _, err := ComputeVdW(sys); !errors.Is(err, ff.ErrNoTerm) {
		Te.Errorf("expected ErrNoTerm, got %v", err)
	}

	sys = ljSystem(Te, coords, units.Angstrom, sig, eps)
	sys.TermCollection = ff.NewTermCollection()
	if _, err := ComputeVdW(sys); !errors.Is(err, ff.ErrNoTerm) {
		Te.Errorf("expected ErrNoTerm, got %v", err)
	}

	sys = ljSystem(Te, coords, units.Angstrom, sig, eps)
	delete(sys.TermCollection.Terms[ff.VdWTerm].Potentials, "type1")
	if _, err := ComputeVdW(sys); !errors.Is(err, ff.ErrMissingParameter) {
		Te.Errorf("expected ErrMissingParameter, got %v", err)
	}

	sys = ljSystem(Te, coords, units.Angstrom, sig, eps)
	sys.TermCollection.Terms[ff.VdWTerm].Potentials["type0"].Parameters[ff.Sigma] = units.KJPerMol.Unit()
	if _, err := ComputeVdW(sys); !errors.Is(err, units.ErrDimension) {
		Te.Errorf("expected ErrDimension, got %v", err)
	}

	sys = ljSystem(Te, coords, units.Angstrom, sig, eps)
	sys.SlotSmirksMap[ff.VdWTerm][ff.NewSlot(7)] = "type0"
	if _, err := ComputeVdW(sys); err == nil {
		Te.Error("expected an error for a slot out of range")
	}

	sys = ljSystem(Te, coords, units.Angstrom, sig, eps)
	sys.SlotSmirksMap[ff.VdWTerm][ff.Slot{}] = "type0"
	if _, err := ComputeVdW(sys); err == nil {
		Te.Error("expected an error for a slot without atoms")
	}
	if _, err := PairEnergies(sys); err == nil {
		Te.Error("expected an error for a slot without atoms")
	}
	if _, _, err := HighestOverlap(sys); err == nil {
		Te.Error("expected an error for a slot without atoms")
	}
}

func TestTraj(Te *testing.T) {
	F, err := ff.LoadForceField("../testdata/forcefield.toml")
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := chem.XYZFileRead("../testdata/argon.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	sys, err := ff.NewSystem(mol, 0, F)
	if err != nil {
		Te.Fatal(err)
	}
	energies, err := ComputeVdWTraj(sys, mol)
	if err != nil {
		Te.Fatal(err)
	}
	if len(energies) != 3 {
		Te.Fatalf("expected 3 energies, got %d", len(energies))
	}
	if energies[0] <= 0 {
		Te.Errorf("atoms closer than sigma should repel, got %v", energies[0])
	}
	if !same(energies[1].In(units.KcalPerMol), -2*0.238, 1e-6) {
		Te.Errorf("atoms at the minimum should give -2 eps, got %v", energies[1])
	}
	if energies[2] >= 0 || energies[2] <= energies[1] {
		Te.Errorf("atoms beyond the minimum should attract less, got %v", energies[2])
	}
	e, err := ComputeVdW(sys)
	if err != nil || e != energies[2] {
		Te.Errorf("the system should keep the last frame, %v %v", e, err)
	}
}
