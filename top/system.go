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

package top

import (
	"fmt"
	"log/slog"
	"math"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/chemgraph"
	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"gonum.org/v1/gonum/unit"
)

// Topology returns a chem.Topology with the atoms and bonds in the receiver.
// Element symbols are taken from the atomic number of each atom's type, or
// guessed from the atom name.
func (F *FF) Topology() *chem.Topology {
	ats := make([]*chem.Atom, len(F.Atoms))
	var charge float64
	for i, a := range F.Atoms {
		at := &chem.Atom{Name: a.Name, ID: i + 1, MolName: a.MolName, MolID: a.MolID, Charge: a.Charge, Mass: a.Mass}
		t, ok := F.Type(a.Type)
		if ok && at.Mass == 0 {
			at.Mass = t.Mass
		}
		if ok && t.AtNum > 0 {
			at.Symbol = chem.SymbolFromNumber(t.AtNum)
		}
		if at.Symbol == "" {
			var err error
			if at.Symbol, err = chem.SymbolFromName(a.Name); err != nil {
				slog.Debug("No element for Gromacs atom", "atom", i+1, "name", a.Name)
			}
		}
		charge += a.Charge
		ats[i] = at
	}
	top := chem.NewTopology(int(math.Round(charge)), 1, ats)
	top.FillIndexes()
	for i, b := range F.Bonds {
		a1, a2 := ats[b[0]], ats[b[1]]
		bond := &chem.Bond{Index: i, At1: a1, At2: a2}
		a1.Bonds = append(a1.Bonds, bond)
		a2.Bonds = append(a2.Bonds, bond)
	}
	return top
}

// System returns a system with the coordinates coords, in units of lengthUnit,
// and a vdW term where each atom is assigned the potential of its Gromacs
// atom type. Potentials are keyed by the type names.
func (F *FF) System(coords *v3.Matrix, lengthUnit unit.Length) (*ff.System, error) {
	if len(F.Atoms) == 0 {
		return nil, fmt.Errorf("top: no atoms in topology")
	}
	if coords == nil || coords.NVecs() != len(F.Atoms) {
		return nil, fmt.Errorf("top: coordinates don't match the %d atoms in the topology", len(F.Atoms))
	}
	topol := F.Topology()
	if g, err := chemgraph.FromPairs(topol, F.Bonds); err == nil {
		slog.Debug("Gromacs topology graph", "atoms", g.Len(), "bonds", g.BondCount(), "fragments", len(g.Fragments()))
	} else {
		slog.Warn("Bonds in Gromacs topology", "error", err)
	}
	term := ff.NewTerm(ff.VdWTerm)
	slots := make(map[ff.Slot]string, len(F.Atoms))
	for i, a := range F.Atoms {
		t, ok := F.Type(a.Type)
		if !ok {
			return nil, fmt.Errorf("top: atom %d (%s) has type %s, not in [ atomtypes ]: %w", i+1, a.Name, a.Type, ff.ErrMissingParameter)
		}
		s := ff.NewSlot(i)
		slots[s] = t.Name
		term.SmirksMap[s] = t.Name
		if _, ok := term.Potentials[t.Name]; !ok {
			term.Potentials[t.Name] = ff.NewLJPotential(t.Name, "", unit.Length(t.Sigma)*units.Nanometre, units.MolarEnergy(t.Epsilon)*units.KJPerMol)
		}
	}
	pos := v3.Zeros(coords.NVecs())
	pos.Copy(coords.Dense)
	sys := &ff.System{
		Positions:      pos,
		LengthUnit:     lengthUnit,
		Topology:       topol,
		SlotSmirksMap:  map[string]map[ff.Slot]string{ff.VdWTerm: slots},
		TermCollection: ff.NewTermCollection(term),
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return sys, nil
}
