/*
 * units.go, part of govdw.
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

// Package units handles the physical units of lengths and molar energies, on top of gonum's unit package.
// Values are kept in SI units (meters, joules per mole) and converted on input and output.
package units

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/unit"
	"gonum.org/v1/gonum/unit/constant"
)

var (
	// ErrDimension is returned when a quantity doesn't have the dimensions it should.
	ErrDimension = errors.New("units: wrong dimensions")
	// ErrUnknownUnit is returned by the parsing functions for unit names they don't know.
	ErrUnknownUnit = errors.New("units: unknown unit")
)

// Lengths.
const (
	Angstrom  unit.Length = 1e-10
	Nanometre unit.Length = 1e-9
	Bohr      unit.Length = 5.29177210903e-11
	Metre     unit.Length = 1
)

// MolarEnergy is an energy per amount of substance, in J/mol.
type MolarEnergy float64

const (
	JoulePerMole MolarEnergy = 1
	KJPerMol     MolarEnergy = 1000
	KcalPerMol   MolarEnergy = 4184
)

// Unit converts e to a *unit.Unit.
func (e MolarEnergy) Unit() *unit.Unit {
	return unit.New(float64(e), molarEnergyDims)
}

// In returns the value of e in units of u.
func (e MolarEnergy) In(u MolarEnergy) float64 {
	return float64(e / u)
}

// PerMolecule returns the energy of a single molecule (or pair) with molar energy e.
func (e MolarEnergy) PerMolecule() unit.Energy {
	return unit.Energy(float64(e) / float64(constant.Avogadro))
}

// String formats e in kJ/mol.
func (e MolarEnergy) String() string {
	return fmt.Sprintf("%.6g kJ/mol", e.In(KJPerMol))
}

var molarEnergyDims = unit.Dimensions{
	unit.MassDim:   1,
	unit.LengthDim: 2,
	unit.TimeDim:   -2,
	unit.MoleDim:   -1,
}

// LengthFrom returns u as a length, or ErrDimension if u is not a length.
func LengthFrom(u unit.Uniter) (unit.Length, error) {
	if u == nil {
		return 0, fmt.Errorf("nil length: %w", ErrDimension)
	}
	if !unit.DimensionsMatch(u, Metre) {
		return 0, fmt.Errorf("%v is not a length: %w", u.Unit(), ErrDimension)
	}
	return unit.Length(u.Unit().Value()), nil
}

// MolarEnergyFrom returns u as a molar energy, or ErrDimension if it isn't one.
func MolarEnergyFrom(u unit.Uniter) (MolarEnergy, error) {
	if u == nil {
		return 0, fmt.Errorf("nil molar energy: %w", ErrDimension)
	}
	if !unit.DimensionsMatch(u, JoulePerMole) {
		return 0, fmt.Errorf("%v is not a molar energy: %w", u.Unit(), ErrDimension)
	}
	return MolarEnergy(u.Unit().Value()), nil
}

var lengthNames = map[string]unit.Length{
	"angstrom":   Angstrom,
	"angstroms":  Angstrom,
	"a":          Angstrom,
	"å":          Angstrom,
	"nanometer":  Nanometre,
	"nanometers": Nanometre,
	"nanometre":  Nanometre,
	"nanometres": Nanometre,
	"nm":         Nanometre,
	"bohr":       Bohr,
	"au":         Bohr,
	"meter":      Metre,
	"metre":      Metre,
	"m":          Metre,
}

var energyNames = map[string]MolarEnergy{
	"joule_per_mole":       JoulePerMole,
	"j/mol":                JoulePerMole,
	"kilojoule_per_mole":   KJPerMol,
	"kilojoules_per_mole":  KJPerMol,
	"kj/mol":               KJPerMol,
	"kilocalorie_per_mole": KcalPerMol,
	"kcal/mol":             KcalPerMol,
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "_/_", "/")
}

// ParseLength returns the length unit with the given name, such as "angstrom", "nm" or "bohr".
func ParseLength(name string) (unit.Length, error) {
	l, ok := lengthNames[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("length %q: %w", name, ErrUnknownUnit)
	}
	return l, nil
}

// ParseMolarEnergy returns the molar energy unit with the given name, such as
// "kilocalorie_per_mole", "kJ/mol" or "kcal/mol".
func ParseMolarEnergy(name string) (MolarEnergy, error) {
	e, ok := energyNames[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("energy %q: %w", name, ErrUnknownUnit)
	}
	return e, nil
}

// LengthName returns the usual symbol for the lengths this package knows, and the value
// in meters otherwise.
func LengthName(l unit.Length) string {
	switch l {
	case Angstrom:
		return "A"
	case Nanometre:
		return "nm"
	case Bohr:
		return "bohr"
	case Metre:
		return "m"
	}
	return fmt.Sprintf("%g m", float64(l))
}

// EnergyName returns the usual symbol for the molar energies this package knows.
func EnergyName(e MolarEnergy) string {
	switch e {
	case JoulePerMole:
		return "J/mol"
	case KJPerMol:
		return "kJ/mol"
	case KcalPerMol:
		return "kcal/mol"
	}
	return fmt.Sprintf("%g J/mol", float64(e))
}
