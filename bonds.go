/*
 * bonds.go, part of govdw.
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
	"sort"

	v3 "github.com/rmera/govdw/v3"
)

// constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

// Bond is a covalent bond between two atoms.
type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Dist  float64
	Order float64 //Order 0 means undetermined
}

// Cross returns the atom bonded to origin through B.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

// return a new *Bond slice with the bond id removed
func takefromslice(bonds []*Bond, id int) []*Bond {
	newb := make([]*Bond, 0, len(bonds))
	for _, v := range bonds {
		if v.Index != id {
			newb = append(newb, v)
		}
	}
	return newb
}

// RemoveBond removes b from both of its atoms.
func RemoveBond(b *Bond) error {
	lenb1 := len(b.At1.Bonds)
	lenb2 := len(b.At2.Bonds)
	b.At1.Bonds = takefromslice(b.At1.Bonds, b.Index)
	b.At2.Bonds = takefromslice(b.At2.Bonds, b.Index)
	var missing []int
	if len(b.At1.Bonds) == lenb1 {
		missing = append(missing, b.At1.Index())
	}
	if len(b.At2.Bonds) == lenb2 {
		missing = append(missing, b.At2.Index())
	}
	if len(missing) > 0 {
		return &CError{fmt.Sprintf("Failed to remove bond %d from atom(s) %v", b.Index, missing), []string{"RemoveBond"}}
	}
	return nil
}

// AssignBonds assigns bonds to a molecule based on a simple distance
// criterium, similar to that described in DOI:10.1186/1758-2946-3-33
// Coordinates must be in Angstrom. Any previous bonds are discarded.
// It returns the bonds assigned, sorted by index.
func AssignBonds(coord *v3.Matrix, mol AtomIndexesFiller) ([]*Bond, error) {
	//It's really not thought
	//for proteins or macromolecules.
	mol.FillIndexes()
	tot := mol.Len()
	if coord.NVecs() != tot {
		return nil, &CError{fmt.Sprintf("%d coordinates for %d atoms", coord.NVecs(), tot), []string{"AssignBonds"}}
	}
	for i := 0; i < tot; i++ {
		mol.Atom(i).Bonds = nil
	}
	t3 := v3.Zeros(1)
	bonds := make([]*Bond, 0, tot)
	var nextIndex int
	for i := 0; i < tot; i++ {
		t1 := coord.VecView(i)
		at1 := mol.Atom(i)
		cov1 := symbolCovrad[at1.Symbol]
		if cov1 == 0 {
			return nil, &CError{fmt.Sprintf("Couldn't find the covalent radius for %s %d", at1.Symbol, i), []string{"AssignBonds"}}
		}
		for j := i + 1; j < tot; j++ {
			t2 := coord.VecView(j)
			at2 := mol.Atom(j)
			cov2 := symbolCovrad[at2.Symbol]
			if cov2 == 0 {
				return nil, &CError{fmt.Sprintf("Couldn't find the covalent radius for %s %d", at2.Symbol, j), []string{"AssignBonds"}}
			}
			t3.Sub(t2, t1)
			d := t3.Norm(2)
			if d < cov1+cov2+bondtol && d > tooclose {
				b := &Bond{Index: nextIndex, Dist: d, At1: at1, At2: at2}
				at1.Bonds = append(at1.Bonds, b)
				at2.Bonds = append(at2.Bonds, b)
				bonds = append(bonds, b)
				nextIndex++
			}
		}
	}

	//Now we check that no atom has too many bonds.
	removed := make(map[int]bool)
	for i := 0; i < tot; i++ {
		at := mol.Atom(i)
		max := symbolMaxBonds[at.Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		sort.Slice(at.Bonds, func(i, j int) bool { return at.Bonds[i].Dist < at.Bonds[j].Dist })
		for len(at.Bonds) > max {
			longest := at.Bonds[len(at.Bonds)-1]
			if err := RemoveBond(longest); err != nil {
				return nil, errDecorate(err, "AssignBonds")
			}
			removed[longest.Index] = true
		}
	}
	if len(removed) == 0 {
		return bonds, nil
	}
	ret := make([]*Bond, 0, len(bonds)-len(removed))
	for _, b := range bonds {
		if !removed[b.Index] {
			ret = append(ret, b)
		}
	}
	return ret, nil
}
