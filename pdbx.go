/*
 * pdbx.go, part of govdw.
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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/govdw/v3"
)

var tl func(string) string = strings.ToLower

// PDBxRead reads a PDBx/mmCIF file from an io.Reader and returns a Molecule with
// one frame per model in the _atom_site loop.
func PDBxRead(pdbx io.Reader) (*Molecule, error) {
	mol, err := pdbxBufIORead(bufio.NewReader(pdbx))
	return mol, errDecorate(err, "PDBxRead")
}

// PDBxFileRead reads a PDBx/mmCIF file, compressed or not (see OpenFile), and returns a Molecule.
func PDBxFileRead(pdbxname string) (*Molecule, error) {
	pdbxfile, err := OpenFile(pdbxname)
	if err != nil {
		return nil, errDecorate(err, "PDBxFileRead")
	}
	defer pdbxfile.Close()
	mol, err := pdbxBufIORead(bufio.NewReader(pdbxfile))
	return mol, errDecorate(err, "PDBxFileRead "+pdbxname)
}

// pdbxmap maps the lowercase names of the _atom_site fields to their column.
type pdbxmap map[string]int

func newpdbxmap() pdbxmap {
	m := make(pdbxmap, len(atomSiteFields))
	for _, v := range atomSiteFields {
		m[v] = -1
	}
	return m
}

// sets s to the column i, if s is a field we know. If not,
// does nothing.
func (m pdbxmap) add(s string, i int) {
	s = strings.TrimSpace(s)
	if _, ok := m[s]; ok {
		m[s] = i
	}
}

// returns the column corresponding to the given field
// or -1 if the field is not in the file.
func (m pdbxmap) get(s string) int {
	if i, ok := m[s]; ok {
		return i
	}
	return -1
}

// value returns the data in the column of field s and whether it was there.
// Dots and question marks are the mmCIF way of saying "nothing".
func (m pdbxmap) value(s string, data []string) (string, bool) {
	k := m.get(s)
	if k < 0 || k >= len(data) || data[k] == "." || data[k] == "?" {
		return "", false
	}
	return data[k], true
}

type atomSetter func(at *Atom, s string) error

var pdbxAtomSetters = []struct {
	field string
	set   atomSetter
}{
	{"_atom_site.type_symbol", func(a *Atom, s string) error { a.Symbol = normalizeSymbol(s); return nil }},
	{"_atom_site.label_atom_id", func(a *Atom, s string) error { a.Name = strings.Trim(s, `"`); return nil }},
	{"_atom_site.auth_atom_id", func(a *Atom, s string) error { a.Name = strings.Trim(s, `"`); return nil }},
	{"_atom_site.label_comp_id", func(a *Atom, s string) error { a.MolName = s; return nil }},
	{"_atom_site.auth_comp_id", func(a *Atom, s string) error { a.MolName = s; return nil }},
	{"_atom_site.label_asym_id", func(a *Atom, s string) error { a.Chain = s; return nil }},
	{"_atom_site.auth_asym_id", func(a *Atom, s string) error { a.Chain = s; return nil }},
	{"_atom_site.id", func(a *Atom, s string) (err error) { a.ID, err = strconv.Atoi(s); return }},
	{"_atom_site.label_seq_id", func(a *Atom, s string) (err error) { a.MolID, err = strconv.Atoi(s); return }},
	{"_atom_site.auth_seq_id", func(a *Atom, s string) (err error) { a.MolID, err = strconv.Atoi(s); return }},
	{"_atom_site.occupancy", func(a *Atom, s string) (err error) { a.Occupancy, err = strconv.ParseFloat(s, 64); return }},
	//We won't do anything if we somehow can't read the charge.
	{"_atom_site.pdbx_formal_charge", func(a *Atom, s string) error { a.Charge, _ = strconv.ParseFloat(s, 64); return nil }},
	{"_atom_site.group_pdb", func(a *Atom, s string) error { a.Het = s != "ATOM"; return nil }},
}

// pdbxFillAtom fills at with the data of one line. auth_ fields come after
// label_ ones in pdbxAtomSetters, so they win when both are present.
func pdbxFillAtom(at *Atom, data []string, m pdbxmap) error {
	for _, v := range pdbxAtomSetters {
		s, ok := m.value(v.field, data)
		if !ok {
			continue
		}
		if err := v.set(at, s); err != nil {
			return fmt.Errorf("pdbxFillAtom: Couldn't parse %s from %s: %w", v.field, s, err)
		}
	}
	if at.Symbol == "" {
		at.Symbol, _ = SymbolFromName(at.Name)
	}
	at.Mass = symbolMass[at.Symbol]
	return nil
}

func pdbxFillBfac(data []string, bf []float64, m pdbxmap) ([]float64, error) {
	v := "_atom_site.b_iso_or_equiv"
	s, ok := m.value(v, data)
	if !ok {
		return bf, fmt.Errorf("pdbxFillBfac: Field %s not present in data %v", v, data)
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return bf, fmt.Errorf("pdbxFillBfac: Couldn't parse bfactor from %s: %w", s, err)
	}
	return append(bf, fl), nil
}

func pdbxFillCoords(data []string, coord []float64, m pdbxmap) ([]float64, error) {
	c := []string{"_atom_site.cartn_x", "_atom_site.cartn_y", "_atom_site.cartn_z"}
	for j, v := range c {
		s, ok := m.value(v, data)
		if !ok {
			return coord, fmt.Errorf("pdbxFillCoords: Field %s not present in data %v", v, data)
		}
		fl, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return coord, fmt.Errorf("pdbxFillCoords: Couldn't parse %d cartesian coordinate from %s: %w", j, s, err)
		}
		coord = append(coord, fl)
	}
	return coord, nil
}

func pdbxBufIORead(pdb *bufio.Reader) (*Molecule, error) {
	m := newpdbxmap()
	molecule := make([]*Atom, 0)
	coords := [][]float64{make([]float64, 0, 3)}
	bfactors := [][]float64{make([]float64, 0)}
	currentmodel := -1
	var reading, readloop bool
	var field int
	havebfactors := true
	hp := strings.HasPrefix
	for {
		line, err := pdb.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		line = strings.TrimSpace(line)
		if hp(line, "#") || hp(line, ";") || line == "" {
			continue
		}
		if hp(tl(line), "loop_") { //new section
			reading = false
			readloop = true
			field = 0
			continue
		}
		if hp(line, "_") {
			if readloop && hp(tl(line), "_atom_site.") {
				reading = true
				m.add(tl(line), field)
				field++
				continue
			}
			readloop = false
			reading = false
			continue
		}
		if !reading {
			continue
		}
		readloop = false
		//Here we should be reading the content lines.
		//we first see if we have a model number
		fields := strings.Fields(line)
		if s, ok := m.value("_atom_site.pdbx_pdb_model_num", fields); ok {
			model, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("pdbxBufIORead: Couldn't parse model number from %s: %w", s, err)
			}
			if currentmodel < 0 {
				currentmodel = model
			}
			if model != currentmodel {
				nats := len(coords[len(coords)-1])
				coords = append(coords, make([]float64, 0, nats))
				bfactors = append(bfactors, make([]float64, 0, nats/3))
				currentmodel = model
			}
		}
		//we don't read the atoms again for the next models.
		if len(coords) == 1 {
			at := new(Atom)
			if err := pdbxFillAtom(at, fields, m); err != nil {
				return nil, fmt.Errorf("pdbxBufIORead: Couldn't read atom %d: %w", len(molecule)+1, err)
			}
			molecule = append(molecule, at)
		}
		//The following we always try to read.
		c := len(coords) - 1
		coords[c], err = pdbxFillCoords(fields, coords[c], m)
		if err != nil {
			return nil, fmt.Errorf("pdbxBufIORead: Couldn't read %d th coordinates for frame %d: %w", len(coords[c])/3+1, c, err)
		}
		if havebfactors {
			bfactors[c], err = pdbxFillBfac(fields, bfactors[c], m)
			if err != nil {
				//It can very well be that the file just doesn't contain b-factors.
				slog.Debug("pdbx file without usable b-factors", "frame", c, "error", err)
				havebfactors = false
			}
		}
	}
	if len(molecule) == 0 {
		return nil, fmt.Errorf("pdbxBufIORead: no _atom_site records found")
	}
	top := NewTopology(0, 1, molecule)
	frames := len(coords)
	mcoords := make([]*v3.Matrix, frames)
	var err error
	for i := 0; i < frames; i++ {
		mcoords[i], err = v3.NewMatrix(coords[i])
		if err != nil {
			return nil, fmt.Errorf("pdbxBufIORead: Couldn't transform coordinates from frame %d: %w", i, err)
		}
	}
	if !havebfactors {
		bfactors = nil
	}
	returned, err := NewMolecule(mcoords, top, bfactors)
	if err != nil {
		return nil, fmt.Errorf("pdbxBufIORead: %w", err)
	}
	return returned, nil
}

// PDBxFileWrite writes the frames coords of mol to a PDBx file called name.
func PDBxFileWrite(name string, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	pdb, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("PDBxFileWrite: %w", err)
	}
	defer pdb.Close()
	return PDBxWrite(pdb, coords, mol, bfact, strings.TrimSuffix(name, ".cif"))
}

// PDBxWrite writes the frames coords of mol to out in PDBx format, as models of one _atom_site loop.
// bfact can be nil.
func PDBxWrite(out io.Writer, coords []*v3.Matrix, mol Atomer, bfact [][]float64, name ...string) error {
	n := "govdw"
	if len(name) > 0 && name[0] != "" {
		n = name[0]
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "data_%s\n#\nloop_\n", n)
	writeb := len(bfact) >= len(coords)
	for _, v := range pdbxWriteFields {
		if v == "_atom_site.B_iso_or_equiv" && !writeb {
			continue
		}
		fmt.Fprintln(w, v)
	}
	for i, v := range coords {
		if v.NVecs() != mol.Len() {
			return fmt.Errorf("PDBxWrite: Reference (%d) and Coords (%d) don't have the same number of atoms", mol.Len(), v.NVecs())
		}
		for j := 0; j < mol.Len(); j++ {
			a := mol.Atom(j)
			het := "ATOM"
			if a.Het {
				het = "HETATM"
			}
			name := a.Name
			if name == "" {
				name = a.Symbol
			}
			molname := a.MolName
			if molname == "" {
				molname = "UNK"
			}
			chain := a.Chain
			if chain == "" {
				chain = "A"
			}
			fmt.Fprintf(w, "%s %d %s %s %s %s %d %4.2f %3.1f %d %.4f %.4f %.4f", het, a.ID, a.Symbol, name, molname, chain, a.MolID, a.Occupancy, a.Charge, i+1, v.At(j, 0), v.At(j, 1), v.At(j, 2))
			if writeb && len(bfact[i]) > j {
				fmt.Fprintf(w, " %5.3f", bfact[i][j])
			} else if writeb {
				fmt.Fprint(w, " 0.000")
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprint(w, "#\n")
	return w.Flush()
}

var pdbxWriteFields = []string{
	"_atom_site.group_PDB",
	"_atom_site.id",
	"_atom_site.type_symbol",
	"_atom_site.auth_atom_id",
	"_atom_site.auth_comp_id",
	"_atom_site.auth_asym_id",
	"_atom_site.auth_seq_id",
	"_atom_site.occupancy",
	"_atom_site.pdbx_formal_charge",
	"_atom_site.pdbx_PDB_model_num",
	"_atom_site.Cartn_x",
	"_atom_site.Cartn_y",
	"_atom_site.Cartn_z",
	"_atom_site.B_iso_or_equiv",
}

var atomSiteFields = []string{
	"_atom_site.group_pdb",
	"_atom_site.id",
	"_atom_site.type_symbol",
	"_atom_site.label_atom_id",
	"_atom_site.label_alt_id",
	"_atom_site.label_comp_id",
	"_atom_site.label_asym_id",
	"_atom_site.label_entity_id",
	"_atom_site.label_seq_id",
	"_atom_site.pdbx_pdb_ins_code",
	"_atom_site.cartn_x",
	"_atom_site.cartn_y",
	"_atom_site.cartn_z",
	"_atom_site.occupancy",
	"_atom_site.b_iso_or_equiv",
	"_atom_site.pdbx_formal_charge",
	"_atom_site.auth_seq_id",
	"_atom_site.auth_comp_id",
	"_atom_site.auth_asym_id",
	"_atom_site.auth_atom_id",
	"_atom_site.pdbx_pdb_model_num",
}
