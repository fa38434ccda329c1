/*
 * overlap.go, part of govdw.
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
	"math"

	"github.com/rmera/govdw/ff"
	"gonum.org/v1/gonum/unit"
)

// HighestOverlap returns the largest overlap in sys, defined as the mixed sigma of a
// pair of different vdW slots minus their distance, and the atoms of that pair.
// A positive overlap means the pair is in the repulsive wall of the potential.
// With less than two slots the overlap is -Inf.
func HighestOverlap(sys *ff.System) (over unit.Length, indexes [2]int, err error) {
	slots, params, distances, err := vdwSetup(sys)
	if err != nil {
		return 0, indexes, err
	}
	over = unit.Length(math.Inf(-1))
	for a, i := range slots {
		for _, j := range slots[a+1:] {
			pi, pj := params[i], params[j]
			sig, _ := Mix(pi.sig, pi.eps, pj.sig, pj.eps)
			ov := sig - distances.Length(i.Atom(0), j.Atom(0))
			if ov > over {
				over = ov
				indexes = [2]int{i.Atom(0), j.Atom(0)}
			}
		}
	}
	return over, indexes, nil
}

// LowestDist returns the shortest distance between two different atoms, and the atoms.
// It returns +Inf for a single atom.
func LowestDist(d *Distances) (dist unit.Length, indexes [2]int) {
	dist = unit.Length(math.Inf(1))
	n, _ := d.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if dt := d.Length(i, j); dt < dist {
				dist = dt
				indexes = [2]int{i, j}
			}
		}
	}
	return
}
