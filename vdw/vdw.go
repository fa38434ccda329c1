/*
 * vdw.go, part of govdw.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * Govdw is developed at the laboratory for instruction in Swedish, Department of Chemistry,
 * University of Helsinki, Finland.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package vdw

import (
	"errors"
	"fmt"
	"math"
	"sort"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/unit"
)

// GetDistance returns the euclidean distance between the first vectors of a and b.
func GetDistance(a, b *v3.Matrix) float64 {
	return floats.Distance(a.RawRowView(0), b.RawRowView(0), 2)
}

// Distances is a square matrix with the distances between all atoms of a system, in units of Unit.
type Distances struct {
	*mat.Dense
	Unit unit.Length
}

// Length returns the distance between atoms i and j.
func (d *Distances) Length(i, j int) unit.Length {
	return unit.Length(d.At(i, j)) * d.Unit
}

// Pairs returns the distances between each unordered pair of different atoms,
// in units of u, row by row from the upper triangle.
func (d *Distances) Pairs(u unit.Length) []float64 {
	n, _ := d.Dims()
	ret := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ret = append(ret, float64(d.Length(i, j)/u))
		}
	}
	return ret
}

// BuildDistanceMatrix returns the n_atoms x n_atoms matrix of distances between the positions
// of sys. Both triangles and the diagonal are filled.
func BuildDistanceMatrix(sys *ff.System) (*Distances, error) {
	n := sys.NAtoms()
	if sys.Positions == nil || sys.Positions.NVecs() != n {
		return nil, fmt.Errorf("vdw: positions don't match the %d atoms of the topology", n)
	}
	if n == 0 {
		return nil, fmt.Errorf("vdw: empty system")
	}
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, GetDistance(sys.Positions.VecView(i), sys.Positions.VecView(j)))
		}
	}
	return &Distances{Dense: d, Unit: sys.LengthUnit}, nil
}

// Mix combines the parameters of two atoms with the Lorentz-Berthelot rules.
func Mix(sig1 unit.Length, eps1 units.MolarEnergy, sig2 unit.Length, eps2 units.MolarEnergy) (unit.Length, units.MolarEnergy) {
	return (sig1 + sig2) * 0.5, units.MolarEnergy(math.Sqrt(float64(eps1 * eps2)))
}

// LennardJones returns 4 eps ((sig/r)^12 - (sig/r)^6). Two atoms on top of each other
// give +Inf, unless sig or eps are zero.
func LennardJones(r, sig unit.Length, eps units.MolarEnergy) units.MolarEnergy {
	if r == 0 {
		if sig == 0 || eps == 0 {
			return 0
		}
		return units.MolarEnergy(math.Inf(1))
	}
	sr6 := math.Pow(float64(sig/r), 6)
	return 4 * eps * units.MolarEnergy(sr6*sr6-sr6)
}

type ljParams struct {
	sig unit.Length
	eps units.MolarEnergy
}

// vdwSetup collects what the energy functions need from sys.
func vdwSetup(sys *ff.System) ([]ff.Slot, map[ff.Slot]ljParams, *Distances, error) {
	if err := sys.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("vdw: %w", err)
	}
	slots, err := sys.Slots(ff.VdWTerm)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("vdw: %w", err)
	}
	term, err := sys.TermCollection.Term(ff.VdWTerm)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("vdw: %w", err)
	}
	params := make(map[ff.Slot]ljParams, len(slots))
	for _, s := range slots {
		p, err := term.Potential(s)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("vdw: %w", err)
		}
		sig, eps, err := p.LJ()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("vdw: slot %v: %w", s, err)
		}
		params[s] = ljParams{sig, eps}
	}
	distances, err := BuildDistanceMatrix(sys)
	if err != nil {
		return nil, nil, nil, err
	}
	return slots, params, distances, nil
}

// ComputeVdW returns the van der Waals energy of sys: the sum of the Lennard-Jones
// energy over every ordered pair of different vdW slots. Each unordered pair is
// counted twice.
func ComputeVdW(sys *ff.System) (units.MolarEnergy, error) {
	slots, params, distances, err := vdwSetup(sys)
	if err != nil {
		return 0, err
	}
	var energy units.MolarEnergy
	for _, i := range slots {
		for _, j := range slots {
			if i == j {
				continue
			}
			r := distances.Length(i.Atom(0), j.Atom(0))
			pi, pj := params[i], params[j]
			sig, eps := Mix(pi.sig, pi.eps, pj.sig, pj.eps)
			energy += LennardJones(r, sig, eps)
		}
	}
	return energy, nil
}

// PairEnergy is the Lennard-Jones interaction between atoms I and J.
type PairEnergy struct {
	I, J    int
	R       unit.Length
	Sigma   unit.Length
	Epsilon units.MolarEnergy
	Energy  units.MolarEnergy
}

// PairEnergies returns the interaction of every unordered pair of vdW slots, sorted
// from the most attractive to the most repulsive. Twice the sum of the energies is
// what ComputeVdW returns.
func PairEnergies(sys *ff.System) ([]PairEnergy, error) {
	slots, params, distances, err := vdwSetup(sys)
	if err != nil {
		return nil, err
	}
	ret := make([]PairEnergy, 0, len(slots)*(len(slots)-1)/2)
	for a, i := range slots {
		for _, j := range slots[a+1:] {
			r := distances.Length(i.Atom(0), j.Atom(0))
			pi, pj := params[i], params[j]
			sig, eps := Mix(pi.sig, pi.eps, pj.sig, pj.eps)
			ret = append(ret, PairEnergy{I: i.Atom(0), J: j.Atom(0), R: r, Sigma: sig, Epsilon: eps, Energy: LennardJones(r, sig, eps)})
		}
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Energy < ret[j].Energy })
	return ret, nil
}

// ComputeVdWTraj reads frames from traj into the positions of sys, and returns the
// van der Waals energy of each. The frames must be in the length unit of sys.
// The positions of sys end up with the last frame read.
func ComputeVdWTraj(sys *ff.System, traj chem.Traj) ([]units.MolarEnergy, error) {
	if traj.Len() != sys.NAtoms() {
		return nil, fmt.Errorf("vdw: trajectory has %d atoms, system has %d", traj.Len(), sys.NAtoms())
	}
	var energies []units.MolarEnergy
	for frame := 0; ; frame++ {
		err := traj.Next(sys.Positions)
		if err != nil {
			var lf chem.LastFrameError
			if errors.As(err, &lf) {
				break
			}
			return energies, fmt.Errorf("vdw: reading frame %d: %w", frame, err)
		}
		e, err := ComputeVdW(sys)
		if err != nil {
			return energies, fmt.Errorf("vdw: frame %d: %w", frame, err)
		}
		energies = append(energies, e)
	}
	return energies, nil
}
