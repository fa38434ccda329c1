/*
 * system.go, part of govdw.
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

package ff

import (
	"fmt"
	"log/slog"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/chemgraph"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"gonum.org/v1/gonum/unit"
)

type options struct {
	lengthUnit unit.Length
	reassign   bool
}

// Option changes the way NewSystem builds a system.
type Option func(*options)

// CoordUnit sets the unit of the molecule's coordinates. The default is Angstrom.
func CoordUnit(l unit.Length) Option {
	return func(o *options) { o.lengthUnit = l }
}

// ReassignBonds makes NewSystem discard the bonds in the molecule and assign them
// again from the interatomic distances.
func ReassignBonds() Option {
	return func(o *options) { o.reassign = true }
}

// NewSystem builds a system with the coordinates of the given frame of mol, and the
// vdW term with the parameters field assigns to each atom. If the atoms in mol have no
// bonds, they are assigned from the interatomic distances first.
func NewSystem(mol *chem.Molecule, frame int, field *ForceField, opts ...Option) (*System, error) {
	o := &options{lengthUnit: units.Angstrom}
	for _, f := range opts {
		f(o)
	}
	if frame < 0 || frame >= mol.LenFrames() {
		return nil, fmt.Errorf("ff: frame %d requested, molecule has %d", frame, mol.LenFrames())
	}
	coords := mol.Coords[frame]
	if o.reassign || !mol.HasBonds() {
		ang := coords
		if o.lengthUnit != units.Angstrom {
			ang = v3.Zeros(coords.NVecs())
			ang.Scale(float64(o.lengthUnit/units.Angstrom), coords.Dense)
		}
		if _, err := chem.AssignBonds(ang, mol); err != nil {
			return nil, fmt.Errorf("ff: assigning bonds: %w", err)
		}
	}
	g, err := chemgraph.FromBonds(mol)
	if err != nil {
		return nil, fmt.Errorf("ff: %w", err)
	}
	slog.Debug("Molecular graph", "atoms", g.Len(), "bonds", g.BondCount(), "fragments", len(g.Fragments()))
	types, err := field.Assign(g)
	if err != nil {
		return nil, err
	}
	term := NewTerm(VdWTerm)
	slots := make(map[Slot]string, len(types))
	for i, t := range types {
		s := NewSlot(i)
		slots[s] = t.Smirks
		term.SmirksMap[s] = t.Smirks
		if _, ok := term.Potentials[t.Smirks]; !ok {
			term.Potentials[t.Smirks] = t.Potential()
		}
	}
	pos := v3.Zeros(coords.NVecs())
	pos.Copy(coords.Dense)
	sys := &System{
		Positions:      pos,
		LengthUnit:     o.lengthUnit,
		Topology:       mol.Topology,
		SlotSmirksMap:  map[string]map[Slot]string{VdWTerm: slots},
		TermCollection: NewTermCollection(term),
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return sys, nil
}
