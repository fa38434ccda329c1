/*
 * xyz.go, part of govdw.
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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	v3 "github.com/rmera/govdw/v3"
)

// XYZFileRead reads a single or multi-frame xyz file, compressed or not
// (see OpenFile), and returns a Molecule.
func XYZFileRead(xyzname string) (*Molecule, error) {
	xyzfile, err := OpenFile(xyzname)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead")
	}
	defer xyzfile.Close()
	mol, err := XYZRead(xyzfile)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead "+xyzname)
	}
	return mol, nil
}

// XYZRead reads a single or multi-frame xyz file from r and returns a Molecule.
// All frames must have the same number of atoms. The elements are taken from the first frame.
func XYZRead(r io.Reader) (*Molecule, error) {
	xyz := bufio.NewReader(r)
	var top *Topology
	coords := make([]*v3.Matrix, 0, 1)
	for frame := 0; ; frame++ {
		ats, c, err := xyzReadFrame(xyz, frame, top == nil)
		if err == io.EOF && frame > 0 {
			break
		}
		if err != nil {
			return nil, errDecorate(err, "XYZRead")
		}
		if top == nil {
			top = NewTopology(0, 1, ats)
		} else if c.NVecs() != top.Len() {
			return nil, &CError{fmt.Sprintf("Frame %d has %d atoms, expected %d", frame, c.NVecs(), top.Len()), []string{"XYZRead"}}
		}
		coords = append(coords, c)
	}
	mol, err := NewMolecule(coords, top, nil)
	if err != nil {
		return nil, errDecorate(err, "XYZRead")
	}
	return mol, nil
}

// xyzReadFrame reads one frame. It returns io.EOF, unwrapped, if the reader
// is exhausted before the frame starts.
func xyzReadFrame(xyz *bufio.Reader, frame int, readatoms bool) ([]*Atom, *v3.Matrix, error) {
	var line string
	var err error
	for strings.TrimSpace(line) == "" {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return nil, nil, err
		}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, nil, &CError{fmt.Sprintf("Ill formatted XYZ file: bad atom count %q in frame %d", strings.TrimSpace(line), frame), []string{"xyzReadFrame"}}
	}
	//The comment line
	if _, err = xyz.ReadString('\n'); err != nil {
		return nil, nil, &CError{fmt.Sprintf("Ill formatted XYZ file: missing comment line in frame %d", frame), []string{"xyzReadFrame"}}
	}
	var molecule []*Atom
	if readatoms {
		molecule = make([]*Atom, natoms)
	}
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, nil, &CError{fmt.Sprintf("Ill formatted XYZ file: frame %d ended after %d of %d atoms", frame, i, natoms), []string{"xyzReadFrame"}}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, &CError{fmt.Sprintf("Line %d of frame %d is ill formed", i+3, frame), []string{"xyzReadFrame"}}
		}
		for j := 0; j < 3; j++ {
			coords[i*3+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, &CError{fmt.Sprintf("Can't parse coordinate %q in line %d of frame %d", fields[j+1], i+3, frame), []string{"xyzReadFrame"}}
			}
		}
		if readatoms {
			at := new(Atom)
			at.Symbol = normalizeSymbol(fields[0])
			at.Name = fields[0]
			at.ID = i + 1
			at.Mass = symbolMass[at.Symbol]
			molecule[i] = at
		}
	}
	c, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, errDecorate(err, "xyzReadFrame")
	}
	return molecule, c, nil
}

// normalizeSymbol turns things like "CL", "cl" or "6" into "Cl", "Cl" and "C".
func normalizeSymbol(s string) string {
	if n, err := strconv.Atoi(s); err == nil {
		for k, v := range symbolAtomicNumber {
			if v == n {
				return k
			}
		}
		return s
	}
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// XYZFileWrite writes the frames coords of mol in an XYZ file with name xyzname which will
// be created for that. If the file exist it will be overwritten.
func XYZFileWrite(xyzname string, coords []*v3.Matrix, mol Atomer) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return errDecorate(err, "XYZFileWrite")
	}
	defer out.Close()
	return errDecorate(XYZWrite(out, coords, mol), "XYZFileWrite")
}

// XYZWrite writes the frames coords of mol to out in xyz format.
func XYZWrite(out io.Writer, coords []*v3.Matrix, mol Atomer) error {
	w := bufio.NewWriter(out)
	for f, c := range coords {
		if c.NVecs() != mol.Len() {
			return &CError{fmt.Sprintf("Frame %d has %d coordinates for %d atoms", f, c.NVecs(), mol.Len()), []string{"XYZWrite"}}
		}
		fmt.Fprintf(w, "%-4d\nFrame %d\n", mol.Len(), f)
		for i := 0; i < mol.Len(); i++ {
			fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, c.At(i, 0), c.At(i, 1), c.At(i, 2))
		}
	}
	if err := w.Flush(); err != nil {
		return errDecorate(err, "XYZWrite")
	}
	return nil
}

// ReadFile reads a coordinate file, choosing the format from the extension:
// .xyz for XYZ, .cif, .mmcif or .pdbx for PDBx. A trailing .zst, .zstd or .gz
// is ignored for this purpose.
func ReadFile(name string) (*Molecule, error) {
	switch strings.ToLower(filepath.Ext(trimCompressionExt(name))) {
	case ".xyz":
		return XYZFileRead(name)
	case ".cif", ".mmcif", ".pdbx":
		return PDBxFileRead(name)
	}
	return nil, &CError{"Unknown coordinate format for " + name, []string{"ReadFile"}}
}
