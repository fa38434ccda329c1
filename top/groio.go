/*
 * groio.go, part of govdw.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/govdw"
)

// ErrUnsupported is returned for valid Gromacs input that can't be handled, like
// Buckingham non-bonded functions.
var ErrUnsupported = errors.New("top: unsupported topology feature")

// cond keeps track of the conditional parts of gromacs topologies,
// which depend on the flags defined.
type cond struct {
	stack []bool
}

func (c *cond) reading() bool {
	for _, v := range c.stack {
		if !v {
			return false
		}
	}
	return true
}

// read processes the preprocessor line, and returns whether the line should be
// read as topology content.
func (c *cond) read(line string, defines map[string]bool) (bool, error) {
	f := fi(line)
	switch f[0] {
	case "#ifdef", "#ifndef":
		if len(f) < 2 {
			return false, fmt.Errorf("%s without a macro name", f[0])
		}
		c.stack = append(c.stack, defines[f[1]] == (f[0] == "#ifdef"))
		return false, nil
	case "#else":
		if len(c.stack) == 0 {
			return false, fmt.Errorf("#else without #ifdef")
		}
		c.stack[len(c.stack)-1] = !c.stack[len(c.stack)-1]
		return false, nil
	case "#endif":
		if len(c.stack) == 0 {
			return false, fmt.Errorf("#endif without #ifdef")
		}
		c.stack = c.stack[:len(c.stack)-1]
		return false, nil
	case "#define", "#undef":
		if c.reading() && len(f) > 1 {
			defines[f[1]] = f[0] == "#define"
		}
		return false, nil
	}
	return c.reading(), nil
}

// AtomType is a Gromacs atom type. Sigma is in nm and Epsilon in kJ/mol,
// regardless of the combination rule of the topology it was read from.
type AtomType struct {
	Name    string
	AtNum   int
	Mass    float64
	Charge  float64
	Ptype   string
	Sigma   float64
	Epsilon float64
}

// Atom is an entry of the [ atoms ] section of a Gromacs topology.
type Atom struct {
	ID      int //as numbered in its moleculetype
	Type    string
	MolID   int
	MolName string
	Name    string
	Charge  float64
	Mass    float64 //0 means the mass of the atom type
}

// FF contains the non-bonded parameters, atoms and bonds read from a Gromacs topology.
type FF struct {
	NBFunc        int
	CombRule      int
	SigmaEpsilon  bool //are LJ terms using sigma/epsilon, or C6/C12?
	ATypes        []*AtomType
	Atoms         []*Atom
	Bonds         [][2]int //0-based indexes in Atoms
	types         map[string]*AtomType
	currentHeader string
	offset        int
	warned        map[string]bool
}

// NewFF returns an empty FF. Until a [ defaults ] section is read, Lennard-Jones
// parameters are taken as sigma/epsilon.
func NewFF() *FF {
	return &FF{
		NBFunc:       1,
		CombRule:     2,
		SigmaEpsilon: true,
		types:        make(map[string]*AtomType),
		warned:       make(map[string]bool),
	}
}

// Type returns the atom type called name.
func (F *FF) Type(name string) (*AtomType, bool) {
	t, ok := F.types[name]
	return t, ok
}

// AddType adds t to the receiver. A type with the same name as an existing one
// replaces it, as in Gromacs.
func (F *FF) AddType(t *AtomType) {
	if old, ok := F.types[t.Name]; ok {
		slog.Warn("Overriding Gromacs atom type", "type", t.Name)
		*old = *t
		return
	}
	F.types[t.Name] = t
	F.ATypes = append(F.ATypes, t)
}

// ReadFile reads the Gromacs topology in the file name, which can be compressed.
// Included files are looked for relative to the directory of name.
func ReadFile(name string, followIncludes bool, defines ...string) (*FF, error) {
	f, err := chem.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	F := NewFF()
	if err := F.fill(bufio.NewReader(f), followIncludes, defineMap(defines), filepath.Dir(name)); err != nil {
		return nil, fmt.Errorf("top: reading %s: %w", name, err)
	}
	return F, nil
}

func defineMap(defines []string) map[string]bool {
	m := make(map[string]bool, len(defines))
	for _, v := range defines {
		m[v] = true
	}
	return m
}

// Fill will fill the receiver with data from the given StringReader which must be
// in Gromacs itp/top format. The sections read are [ defaults ], [ atomtypes ],
// [ moleculetype ], [ atoms ] and [ bonds ], others are skipped. If followIncludes
// is true, #include statements trigger reading the included file, relative to
// the current directory. The preprocessor flags in defines are taken as defined.
func (F *FF) Fill(r StringReader, followIncludes bool, defines ...string) error {
	if F.types == nil {
		F.types = make(map[string]*AtomType)
		F.warned = make(map[string]bool)
	}
	return F.fill(r, followIncludes, defineMap(defines), "")
}

func (F *FF) fill(r StringReader, follow bool, defines map[string]bool, dir string) error {
	read := new(cond)
	h := newTopHeader()
	for lineno := 1; ; lineno++ {
		s, rerr := r.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return rerr
		}
		if err := F.readLine(cleanString(s), h, read, follow, defines, dir); err != nil {
			return fmt.Errorf("line %d (%s): %w", lineno, strings.TrimSpace(s), err)
		}
		if rerr != nil {
			break
		}
	}
	if len(read.stack) != 0 {
		return fmt.Errorf("%d unterminated #ifdef", len(read.stack))
	}
	return nil
}

func (F *FF) readLine(s string, h *topHeader, read *cond, follow bool, defines map[string]bool, dir string) error {
	if s == "" {
		return nil
	}
	if s[0] == '#' {
		ok, err := read.read(s, defines)
		if err != nil || !ok {
			return err
		}
		if strings.HasPrefix(s, "#include") {
			return F.include(s, follow, defines, dir)
		}
		return nil
	}
	if !read.reading() {
		return nil
	}
	if h.Is(s) {
		F.currentHeader = h.Which(s)
		switch F.currentHeader {
		case "moleculetype":
			F.offset = len(F.Atoms)
		case "nonbond", "pairtypes":
			F.warnIgnored(F.currentHeader)
		}
		return nil
	}
	switch F.currentHeader {
	case "defaults":
		return F.defaultsFromGro(s)
	case "atomtypes":
		at, err := AtomTypeFromGro(s, F.SigmaEpsilon)
		if err != nil {
			return err
		}
		F.AddType(at)
	case "atoms":
		at, err := AtomFromGro(s)
		if err != nil {
			return err
		}
		if at.ID != len(F.Atoms)-F.offset+1 {
			return fmt.Errorf("atom %d out of sequence, expected %d", at.ID, len(F.Atoms)-F.offset+1)
		}
		F.Atoms = append(F.Atoms, at)
	case "bonds":
		return F.bondFromGro(s)
	}
	return nil
}

func (F *FF) include(s string, follow bool, defines map[string]bool, dir string) error {
	f := fi(s)
	if len(f) < 2 {
		return fmt.Errorf("#include without a file name")
	}
	fname := strings.Trim(f[len(f)-1], "\"'<>")
	if !follow {
		slog.Debug("Not following #include", "file", fname)
		return nil
	}
	if !filepath.IsAbs(fname) {
		fname = filepath.Join(dir, fname)
	}
	file, err := chem.OpenFile(fname)
	if err != nil {
		return fmt.Errorf("failed to include file %s: %w", fname, err)
	}
	defer file.Close()
	if err := F.fill(bufio.NewReader(file), follow, defines, filepath.Dir(fname)); err != nil {
		return fmt.Errorf("in included file %s: %w", fname, err)
	}
	return nil
}

func (F *FF) warnIgnored(section string) {
	if F.warned[section] {
		return
	}
	F.warned[section] = true
	slog.Warn("Ignoring Gromacs topology section, all pairs will be mixed with Lorentz-Berthelot rules", "section", section)
}

func (F *FF) defaultsFromGro(s string) error {
	f := fi(s)
	if len(f) < 2 {
		return fmt.Errorf("[ defaults ] needs at least nbfunc and comb-rule")
	}
	v, err := parseints(f[:2]...)
	if err != nil {
		return err
	}
	if v[0] != 1 {
		return fmt.Errorf("non-bonded function %d: %w", v[0], ErrUnsupported)
	}
	switch v[1] {
	case 1:
		F.SigmaEpsilon = false
	case 2:
		F.SigmaEpsilon = true
	case 3:
		F.SigmaEpsilon = true
		slog.Warn("Combination rule 3 requested, Lorentz-Berthelot will be used instead")
	default:
		return fmt.Errorf("combination rule %d: %w", v[1], ErrUnsupported)
	}
	F.NBFunc, F.CombRule = v[0], v[1]
	return nil
}

// bonds refer to atoms in the current moleculetype
func (F *FF) bondFromGro(s string) error {
	f := fi(s)
	if len(f) < 2 {
		return fmt.Errorf("bond line with less than 2 atoms")
	}
	ids, err := parseints(f[:2]...)
	if err != nil {
		return err
	}
	var b [2]int
	for i, id := range ids {
		b[i] = F.offset + id - 1
		if id < 1 || b[i] >= len(F.Atoms) {
			return fmt.Errorf("bond to atom %d, which is not in the molecule", id)
		}
	}
	F.Bonds = append(F.Bonds, b)
	return nil
}

// AtomFromGro returns an Atom with the information in the [ atoms ] line s.
func AtomFromGro(s string) (ret *Atom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("couldn't read atom from string. Error: %s String: %s", r, s)
			ret = nil
		}
	}()
	f := fi(cleanString(s))
	if len(f) < 7 {
		return nil, fmt.Errorf("atom line with %d fields, at least 7 needed", len(f))
	}
	ret = &Atom{Type: f[1], MolName: f[3], Name: f[4]}
	ints, err := parseints(f[0], f[2])
	qerr(err)
	ret.ID, ret.MolID = ints[0], ints[1]
	ret.Charge, err = strconv.ParseFloat(f[6], 64)
	qerr(err)
	if len(f) > 7 {
		ret.Mass, err = strconv.ParseFloat(f[7], 64)
		qerr(err)
	}
	return ret, nil
}

// AtomTypeFromGro reads a string with the appropriate gromacs topology format
// to return a pointer to AtomType. The fields are read from the end of the line,
// so the optional bonded type and atomic number can be absent. If sigmaep is false,
// the Lennard-Jones parameters are taken as C6/C12 and converted to sigma/epsilon.
func AtomTypeFromGro(s string, sigmaep bool) (ret *AtomType, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("couldn't read atom type from string. Error: %s String: %s", r, s)
			ret = nil
		}
	}()
	f := fi(cleanString(s))
	n := len(f)
	if n < 6 {
		return nil, fmt.Errorf("atom type line with %d fields, at least 6 needed", n)
	}
	ret = &AtomType{Name: f[0], Ptype: f[n-3]}
	if len(ret.Ptype) != 1 || !strings.Contains("ASVD", ret.Ptype) {
		return nil, fmt.Errorf("unknown particle type %q in atom type %s", ret.Ptype, ret.Name)
	}
	vals, err := parsefloats(f[n-5], f[n-4], f[n-2], f[n-1])
	qerr(err)
	ret.Mass, ret.Charge = vals[0], vals[1]
	if n >= 7 {
		if num, err := strconv.Atoi(f[n-6]); err == nil {
			ret.AtNum = num
		}
	}
	if sigmaep {
		ret.Sigma, ret.Epsilon = vals[2], vals[3]
	} else {
		ret.Sigma, ret.Epsilon = c6c12ToSigmaEpsilon(vals[2], vals[3])
	}
	if ret.Sigma < 0 || ret.Epsilon < 0 {
		return nil, fmt.Errorf("negative Lennard-Jones parameters for atom type %s", ret.Name)
	}
	return ret, nil
}

// ToGro returns the atom type as an [ atomtypes ] line, with sigma/epsilon, or
// with C6/C12 if sigmaep is false.
func (A *AtomType) ToGro(sigmaep bool) string {
	v, w := A.Sigma, A.Epsilon
	if !sigmaep {
		v, w = sigmaEpsilonToC6C12(A.Sigma, A.Epsilon)
	}
	return fmt.Sprintf("%-8s %3d %10.5f %8.4f %1s %14.6e %14.6e\n", A.Name, A.AtNum, A.Mass, A.Charge, A.Ptype, v, w)
}

// WriteAtomTypes writes the [ defaults ] and [ atomtypes ] sections of the receiver to w.
func (F *FF) WriteAtomTypes(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "[ defaults ]\n; nbfunc comb-rule\n%6d %6d\n\n", F.NBFunc, F.CombRule)
	fmt.Fprintf(b, "[ atomtypes ]\n; name  at.num       mass   charge ptype  V  W\n")
	for _, t := range F.ATypes {
		b.WriteString(t.ToGro(F.SigmaEpsilon))
	}
	return b.Flush()
}
