/*
 * forcefield.go, part of govdw.
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
	"io"
	"math"
	"strings"

	"github.com/pelletier/go-toml"
	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/smirks"
	"github.com/rmera/govdw/units"
	"gonum.org/v1/gonum/unit"
)

// AtomType is a set of Lennard-Jones parameters and the pattern that assigns them.
type AtomType struct {
	ID      string
	Smirks  string
	Sigma   unit.Length
	Epsilon units.MolarEnergy
	pattern *smirks.Pattern
}

// Potential returns the Lennard-Jones potential for the atom type.
func (a *AtomType) Potential() *Potential {
	return NewLJPotential(a.ID, a.Smirks, a.Sigma, a.Epsilon)
}

// ForceField is an ordered list of vdW atom types. When several patterns match an atom,
// the last one in the list wins.
type ForceField struct {
	Name  string
	types []*AtomType
	index map[string]int
}

// NewForceField returns an empty force field called name.
func NewForceField(name string) *ForceField {
	return &ForceField{Name: name, index: make(map[string]int)}
}

// AddType appends an atom type to the force field. The SMIRKS must be valid
// and not repeated, and sigma and epsilon can't be negative.
func (F *ForceField) AddType(id, pattern string, sigma unit.Length, epsilon units.MolarEnergy) error {
	p, err := smirks.Parse(pattern)
	if err != nil {
		return fmt.Errorf("atom type %s: %w", id, err)
	}
	if _, ok := F.index[p.String()]; ok {
		return fmt.Errorf("ff: SMIRKS %s repeated in force field %s", p, F.Name)
	}
	if sigma < 0 || epsilon < 0 || math.IsNaN(float64(sigma)) || math.IsNaN(float64(epsilon)) {
		return fmt.Errorf("ff: invalid parameters for atom type %s: sigma %g m, epsilon %g J/mol", id, float64(sigma), float64(epsilon))
	}
	F.index[p.String()] = len(F.types)
	F.types = append(F.types, &AtomType{ID: id, Smirks: p.String(), Sigma: sigma, Epsilon: epsilon, pattern: p})
	return nil
}

// Types returns the atom types in the force field, in order.
func (F *ForceField) Types() []*AtomType {
	ret := make([]*AtomType, len(F.types))
	copy(ret, F.types)
	return ret
}

// Len returns the number of atom types.
func (F *ForceField) Len() int {
	return len(F.types)
}

// Assign returns the atom type of each atom in g: the last one whose pattern
// matches the atom. Atoms no pattern matches give an error wrapping ErrUnassignedAtom.
func (F *ForceField) Assign(g smirks.Graph) ([]*AtomType, error) {
	ret := make([]*AtomType, g.Len())
	var missing []int
	for i := 0; i < g.Len(); i++ {
		for j := len(F.types) - 1; j >= 0; j-- {
			if F.types[j].pattern.MatchesAtom(g, i) {
				ret[i] = F.types[j]
				break
			}
		}
		if ret[i] == nil {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("atoms %v in force field %s: %w", missing, F.Name, ErrUnassignedAtom)
	}
	return ret, nil
}

type tomlAtom struct {
	Smirks   string  `toml:"smirks"`
	ID       string  `toml:"id"`
	Sigma    float64 `toml:"sigma"`
	RminHalf float64 `toml:"rmin_half"`
	Epsilon  float64 `toml:"epsilon"`
}

type tomlVdW struct {
	LengthUnit string     `toml:"length_unit"`
	EnergyUnit string     `toml:"energy_unit"`
	Atoms      []tomlAtom `toml:"atom"`
}

type tomlForceField struct {
	Name string  `toml:"name"`
	VdW  tomlVdW `toml:"vdw"`
}

// rmin/2 to sigma: sigma = 2 rmin_half / 2^(1/6)
var rminHalfToSigma = 2 / math.Pow(2, 1.0/6.0)

// ReadForceField reads a force field in TOML format:
//
//	name = "example"
//	[vdw]
//	length_unit = "angstrom"
//	energy_unit = "kilocalorie_per_mole"
//	[[vdw.atom]]
//	smirks = "[#1:1]"
//	id = "n1"
//	rmin_half = 0.6
//	epsilon = 0.0157
//
// Each atom needs either sigma or rmin_half, and epsilon. Units default to
// angstrom and kcal/mol.
func ReadForceField(r io.Reader) (*ForceField, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("ff: reading force field: %w", err)
	}
	var doc tomlForceField
	if err := tree.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("ff: decoding force field: %w", err)
	}
	lu := units.Angstrom
	if doc.VdW.LengthUnit != "" {
		if lu, err = units.ParseLength(doc.VdW.LengthUnit); err != nil {
			return nil, fmt.Errorf("ff: %w", err)
		}
	}
	eu := units.KcalPerMol
	if doc.VdW.EnergyUnit != "" {
		if eu, err = units.ParseMolarEnergy(doc.VdW.EnergyUnit); err != nil {
			return nil, fmt.Errorf("ff: %w", err)
		}
	}
	//Unmarshal can't tell a missing number from a zero, the trees can.
	atomTrees, _ := tree.Get("vdw.atom").([]*toml.Tree)
	if len(atomTrees) != len(doc.VdW.Atoms) || len(atomTrees) == 0 {
		return nil, fmt.Errorf("ff: no [[vdw.atom]] entries in force field %q", doc.Name)
	}
	F := NewForceField(doc.Name)
	for i, a := range doc.VdW.Atoms {
		t := atomTrees[i]
		id := a.ID
		if id == "" {
			id = fmt.Sprintf("vdw%d", i+1)
		}
		if a.Smirks == "" {
			return nil, fmt.Errorf("ff: atom type %s has no smirks: %w", id, ErrMissingParameter)
		}
		hasSigma, hasRmin := t.Has(Sigma), t.Has("rmin_half")
		if hasSigma == hasRmin {
			return nil, fmt.Errorf("ff: atom type %s needs exactly one of sigma and rmin_half: %w", id, ErrMissingParameter)
		}
		if !t.Has(Epsilon) {
			return nil, fmt.Errorf("ff: atom type %s has no epsilon: %w", id, ErrMissingParameter)
		}
		sigma := a.Sigma
		if hasRmin {
			sigma = a.RminHalf * rminHalfToSigma
		}
		if err := F.AddType(id, a.Smirks, unit.Length(sigma)*lu, units.MolarEnergy(a.Epsilon)*eu); err != nil {
			return nil, err
		}
	}
	return F, nil
}

// LoadForceField reads a TOML force field from the file name, which can be compressed.
func LoadForceField(name string) (*ForceField, error) {
	f, err := chem.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	F, err := ReadForceField(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if F.Name == "" {
		F.Name = strings.TrimSuffix(name, ".toml")
	}
	return F, nil
}
