/*
 * ff.go, part of govdw.
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

// Package ff contains the force-field data model used to compute non-bonded energies:
// systems, terms, potentials and the slots atoms are assigned to, plus the assignment of
// Lennard-Jones parameters from SMIRNOFF-style force fields.
package ff

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/units"
	v3 "github.com/rmera/govdw/v3"
	"gonum.org/v1/gonum/unit"
)

// VdWTerm is the name of the van der Waals term.
const VdWTerm = "vdW"

// Names of the Lennard-Jones parameters.
const (
	Sigma   = "sigma"
	Epsilon = "epsilon"
)

var (
	// ErrNoTerm is returned when a system lacks a term or its slot map.
	ErrNoTerm = errors.New("ff: term not present")
	// ErrMissingParameter is returned when a slot has no potential or a potential lacks a parameter.
	ErrMissingParameter = errors.New("ff: missing parameter")
	// ErrUnassignedAtom is returned when no force-field pattern matches an atom.
	ErrUnassignedAtom = errors.New("ff: atom without parameters")
)

// Slot is a tuple of up to 4 atom indexes that a potential applies to.
// vdW slots contain one atom. Slots are comparable, so they can be map keys.
type Slot struct {
	atoms [4]int
	n     int
}

// NewSlot returns a slot with the given atom indexes. It panics if given more than 4.
func NewSlot(atoms ...int) Slot {
	if len(atoms) > 4 {
		panic("ff: a slot can't have more than 4 atoms")
	}
	var s Slot
	s.n = copy(s.atoms[:], atoms)
	return s
}

// Atom returns the kth atom index of the slot. It panics if k is out of range.
func (s Slot) Atom(k int) int {
	if k < 0 || k >= s.n {
		panic(chem.ErrAtomOutOfRange)
	}
	return s.atoms[k]
}

// Len returns the number of atoms in the slot.
func (s Slot) Len() int {
	return s.n
}

// Less sorts slots lexicographically.
func (s Slot) Less(o Slot) bool {
	for k := 0; k < s.n && k < o.n; k++ {
		if s.atoms[k] != o.atoms[k] {
			return s.atoms[k] < o.atoms[k]
		}
	}
	return s.n < o.n
}

func (s Slot) String() string {
	str := make([]string, s.n)
	for k := 0; k < s.n; k++ {
		str[k] = strconv.Itoa(s.atoms[k])
	}
	return "(" + strings.Join(str, ",") + ")"
}

// SortSlots sorts s in place and returns it.
func SortSlots(s []Slot) []Slot {
	sort.Slice(s, func(i, j int) bool { return s[i].Less(s[j]) })
	return s
}

// Potential is a set of parameters, with units, identified by the pattern that assigns them.
type Potential struct {
	ID         string
	Smirks     string
	Parameters map[string]*unit.Unit
}

// NewLJPotential returns a Lennard-Jones potential with the given sigma and epsilon.
func NewLJPotential(id, smirks string, sigma unit.Length, epsilon units.MolarEnergy) *Potential {
	return &Potential{
		ID:     id,
		Smirks: smirks,
		Parameters: map[string]*unit.Unit{
			Sigma:   sigma.Unit(),
			Epsilon: epsilon.Unit(),
		},
	}
}

func (p *Potential) parameter(name string) (*unit.Unit, error) {
	u, ok := p.Parameters[name]
	if !ok || u == nil {
		return nil, fmt.Errorf("potential %s (%s) has no %s: %w", p.ID, p.Smirks, name, ErrMissingParameter)
	}
	return u, nil
}

// Length returns the parameter name as a length.
func (p *Potential) Length(name string) (unit.Length, error) {
	u, err := p.parameter(name)
	if err != nil {
		return 0, err
	}
	l, err := units.LengthFrom(u)
	if err != nil {
		return 0, fmt.Errorf("parameter %s of potential %s: %w", name, p.ID, err)
	}
	return l, nil
}

// MolarEnergy returns the parameter name as a molar energy.
func (p *Potential) MolarEnergy(name string) (units.MolarEnergy, error) {
	u, err := p.parameter(name)
	if err != nil {
		return 0, err
	}
	e, err := units.MolarEnergyFrom(u)
	if err != nil {
		return 0, fmt.Errorf("parameter %s of potential %s: %w", name, p.ID, err)
	}
	return e, nil
}

// LJ returns the sigma and epsilon of p.
func (p *Potential) LJ() (unit.Length, units.MolarEnergy, error) {
	sig, err := p.Length(Sigma)
	if err != nil {
		return 0, 0, err
	}
	eps, err := p.MolarEnergy(Epsilon)
	if err != nil {
		return 0, 0, err
	}
	return sig, eps, nil
}

// Term is one kind of interaction: the slots it applies to, each with the key of
// its potential, and the potentials themselves.
type Term struct {
	Name       string
	SmirksMap  map[Slot]string
	Potentials map[string]*Potential
}

// NewTerm returns an empty term called name.
func NewTerm(name string) *Term {
	return &Term{Name: name, SmirksMap: make(map[Slot]string), Potentials: make(map[string]*Potential)}
}

// Potential returns the potential for slot s.
func (t *Term) Potential(s Slot) (*Potential, error) {
	key, ok := t.SmirksMap[s]
	if !ok {
		return nil, fmt.Errorf("slot %v not in term %s: %w", s, t.Name, ErrMissingParameter)
	}
	p, ok := t.Potentials[key]
	if !ok || p == nil {
		return nil, fmt.Errorf("no potential %q for slot %v in term %s: %w", key, s, t.Name, ErrMissingParameter)
	}
	return p, nil
}

// Keys returns the sorted potential keys of the term.
func (t *Term) Keys() []string {
	keys := make([]string, 0, len(t.Potentials))
	for k := range t.Potentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TermCollection holds the terms of a system by name.
type TermCollection struct {
	Terms map[string]*Term
}

// NewTermCollection returns a collection with the given terms.
func NewTermCollection(terms ...*Term) *TermCollection {
	tc := &TermCollection{Terms: make(map[string]*Term, len(terms))}
	for _, t := range terms {
		tc.Terms[t.Name] = t
	}
	return tc
}

// Term returns the term called name.
func (tc *TermCollection) Term(name string) (*Term, error) {
	if tc == nil {
		return nil, fmt.Errorf("no term collection: %w", ErrNoTerm)
	}
	t, ok := tc.Terms[name]
	if !ok || t == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoTerm)
	}
	return t, nil
}

// System contains everything needed to compute the energy of a molecular system:
// positions, topology, and the terms with the slots assigned to each.
// Positions are in units of LengthUnit.
type System struct {
	Positions      *v3.Matrix
	LengthUnit     unit.Length
	Topology       chem.Atomer
	SlotSmirksMap  map[string]map[Slot]string
	TermCollection *TermCollection
}

// NAtoms returns the number of atoms in the topology of the system.
func (s *System) NAtoms() int {
	if s.Topology == nil {
		return 0
	}
	return s.Topology.Len()
}

// Slots returns the slots assigned to term, sorted.
func (s *System) Slots(term string) ([]Slot, error) {
	m, ok := s.SlotSmirksMap[term]
	if !ok {
		return nil, fmt.Errorf("no slots for %s: %w", term, ErrNoTerm)
	}
	slots := make([]Slot, 0, len(m))
	for k := range m {
		slots = append(slots, k)
	}
	return SortSlots(slots), nil
}

// Validate checks that the positions match the topology and that slots
// refer to existing atoms.
func (s *System) Validate() error {
	if s.Positions == nil {
		return fmt.Errorf("ff: system without positions")
	}
	if s.Positions.NVecs() != s.NAtoms() {
		return fmt.Errorf("ff: %d positions for %d atoms", s.Positions.NVecs(), s.NAtoms())
	}
	if s.LengthUnit <= 0 {
		return fmt.Errorf("ff: invalid length unit %v", s.LengthUnit)
	}
	for name, m := range s.SlotSmirksMap {
		for slot := range m {
			if slot.Len() == 0 {
				return fmt.Errorf("ff: term %s has a slot without atoms", name)
			}
			for k := 0; k < slot.Len(); k++ {
				if a := slot.Atom(k); a < 0 || a >= s.NAtoms() {
					return fmt.Errorf("ff: slot %v of term %s refers to atom %d, but there are %d atoms", slot, name, a, s.NAtoms())
				}
			}
		}
	}
	return nil
}
