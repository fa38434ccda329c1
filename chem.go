/*
 * chem.go, part of govdw.
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

package chem

import (
	"fmt"

	v3 "github.com/rmera/govdw/v3"
)

/**Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is way-most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of bounds
 * fields**/

// Atom contains the information of an atom except for the coordinates, which will be in a matrix
// and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string
	ID        int
	index     int
	MolName   string
	MolID     int
	Chain     string
	Mass      float64
	Occupancy float64
	Charge    float64
	Symbol    string
	Het       bool // is the atom an hetatm in the pdb file?
	Bonds     []*Bond
}

//Atom methods

// Index returns the index of the atom in its topology. It is only
// meaningful after the topology's FillIndexes method has been called.
func (A *Atom) Index() int {
	return A.index
}

/*****Topology type***/

// Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

// NewTopology returns a topology with the given charge, multiplicity and atoms.
// If ats is nil, an empty topology is returned.
func NewTopology(charge, multi int, ats ...[]*Atom) *Topology {
	top := new(Topology)
	if len(ats) == 0 || ats[0] == nil {
		top.Atoms = make([]*Atom, 0, 0)
	} else {
		top.Atoms = ats[0]
	}
	top.charge = charge
	top.multi = multi
	return top
}

/*Topology methods*/

// Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

// Multi returns the multiplicity of the topology
func (T *Topology) Multi() int {
	return T.multi
}

// FillIndexes sets the Index field of each atom to its position in the topology.
func (T *Topology) FillIndexes() {
	for key, val := range T.Atoms {
		val.index = key
	}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic(ErrAtomOutOfRange)
	}
	return T.Atoms[i]
}

// AppendAtom appends an atom at the end of the topology.
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

// Len returns the length of the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// HasBonds returns true if at least one atom in the topology has bonds assigned.
func (T *Topology) HasBonds() bool {
	for _, v := range T.Atoms {
		if len(v.Bonds) > 0 {
			return true
		}
	}
	return false
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
// Coordinates and b-factors are stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
	current  int
}

// NewMolecule makes a molecule with ats atoms, coords coordinates and bfactors b-factors,
// and returns it. It returns an error if the number of coordinates in any frame doesn't match
// the number of atoms. bfactors can be nil.
func NewMolecule(coords []*v3.Matrix, ats Atomer, bfactors [][]float64) (*Molecule, error) {
	if ats == nil {
		return nil, &CError{"Supplied a nil Topology", []string{"NewMolecule"}}
	}
	if coords == nil {
		return nil, &CError{"Supplied a nil coordinates slice", []string{"NewMolecule"}}
	}
	mol := new(Molecule)
	if top, ok := ats.(*Topology); ok {
		mol.Topology = top
	} else {
		mol.Topology = NewTopology(0, 1)
		for i := 0; i < ats.Len(); i++ {
			mol.AppendAtom(ats.Atom(i))
		}
	}
	mol.Coords = coords
	mol.Bfactors = bfactors
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

// Corrupted checks whether the molecule is corrupted, i.e. the
// coordinates don't match the number of atoms. It also fills
// missing b-factors with zeroes.
func (M *Molecule) Corrupted() error {
	if M.Bfactors == nil {
		M.Bfactors = make([][]float64, 0, len(M.Coords))
	}
	lastbfac := len(M.Bfactors) - 1
	for i := range M.Coords {
		if M.Len() != M.Coords[i].NVecs() {
			return &CError{fmt.Sprintf("Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", i, M.Len(), M.Coords[i].NVecs()), []string{"Corrupted"}}
		}
		//Since bfactors are not as important as coordinates, we will just fill with
		//zeroes anything that is lacking or incomplete instead of returning an error.
		if lastbfac < i {
			M.Bfactors = append(M.Bfactors, make([]float64, M.Len()))
		} else if len(M.Bfactors[i]) < M.Len() {
			M.Bfactors[i] = make([]float64, M.Len())
		}
	}
	return nil
}

// LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

/******************************************
//The following implement the Traj interface
**********************************************/

// Readable returns true if the molecule has frames left to read.
func (M *Molecule) Readable() bool {
	return M != nil && M.Coords != nil && M.current < len(M.Coords)
}

// Next puts the next frame into output, if output is not nil. The box is ignored, as
// molecules don't carry box information. When there are no more frames, it returns
// an error satisfying LastFrameError.
func (M *Molecule) Next(output *v3.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		return newlastFrameError("", len(M.Coords))
	}
	M.current++
	if output == nil {
		return nil
	}
	output.Copy(M.Coords[M.current-1].Dense)
	return nil
}

// InitRead rewinds the molecule so it can be read again as a trajectory.
func (M *Molecule) InitRead() error {
	if M == nil || len(M.Coords) == 0 {
		return &CError{"Bad molecule", []string{"InitRead"}}
	}
	M.current = 0
	return nil
}
