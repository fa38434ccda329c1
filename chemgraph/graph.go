/*
 * graph.go, part of govdw.
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

// Package chemgraph builds the connectivity graph of a molecule on top of gonum's graph packages.
// Nodes are atoms and edges are covalent bonds weighted by their length.
package chemgraph

import (
	"fmt"
	"math"
	"sort"

	chem "github.com/rmera/govdw"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Atom is a graph node wrapping a chem.Atom. Its ID is the index of the atom in the topology.
type Atom struct {
	*chem.Atom
	id int64
}

// ID returns the index of the atom in the topology the graph was built from.
func (A *Atom) ID() int64 {
	return A.id
}

// AtID returns the ID of the wrapped chem.Atom, usually the one from the input file.
func (A *Atom) AtID() int {
	return A.Atom.ID
}

// Bond is an undirected, weighted graph edge. Bond can be nil for bonds
// that didn't come from a chem.Bond.
type Bond struct {
	*chem.Bond
	At1, At2 *Atom
	Length   float64
}

func (B *Bond) From() graph.Node {
	return B.At1
}

func (B *Bond) To() graph.Node {
	return B.At2
}

// ReversedEdge returns a copy of B with its ends swapped.
func (B *Bond) ReversedEdge() graph.Edge {
	return &Bond{Bond: B.Bond, At1: B.At2, At2: B.At1, Length: B.Length}
}

// Weight returns the length of the bond.
func (B *Bond) Weight() float64 {
	return B.Length
}

// Molecule is the connectivity graph of a molecule.
type Molecule struct {
	*simple.WeightedUndirectedGraph
	atoms []*Atom
}

func newMolecule(top chem.Atomer) *Molecule {
	M := &Molecule{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		atoms:                   make([]*Atom, top.Len()),
	}
	for i := 0; i < top.Len(); i++ {
		M.atoms[i] = &Atom{Atom: top.Atom(i), id: int64(i)}
		M.AddNode(M.atoms[i])
	}
	return M
}

// FromBonds builds the graph of top from the Bonds of its atoms, as assigned,
// for instance, by chem.AssignBonds. Bonds to atoms outside top are an error.
func FromBonds(top chem.Atomer) (*Molecule, error) {
	M := newMolecule(top)
	index := make(map[*chem.Atom]*Atom, top.Len())
	for _, a := range M.atoms {
		index[a.Atom] = a
	}
	for _, a := range M.atoms {
		for _, b := range a.Bonds {
			at1, ok1 := index[b.At1]
			at2, ok2 := index[b.At2]
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("chemgraph: bond %d of atom %d has an atom not in the topology", b.Index, a.id)
			}
			if at1 == at2 {
				return nil, fmt.Errorf("chemgraph: bond %d bonds atom %d to itself", b.Index, a.id)
			}
			if M.HasEdgeBetween(at1.id, at2.id) {
				continue
			}
			M.SetWeightedEdge(&Bond{Bond: b, At1: at1, At2: at2, Length: b.Dist})
		}
	}
	return M, nil
}

// FromPairs builds the graph of top with a bond for each pair of atom indexes.
// Repeated pairs are ignored. Bond lengths are set to 1.
func FromPairs(top chem.Atomer, pairs [][2]int) (*Molecule, error) {
	M := newMolecule(top)
	for _, p := range pairs {
		if p[0] == p[1] || p[0] < 0 || p[1] < 0 || p[0] >= M.Len() || p[1] >= M.Len() {
			return nil, fmt.Errorf("chemgraph: invalid bond %d-%d for %d atoms", p[0], p[1], M.Len())
		}
		if M.HasEdgeBetween(int64(p[0]), int64(p[1])) {
			continue
		}
		M.SetWeightedEdge(&Bond{At1: M.atoms[p[0]], At2: M.atoms[p[1]], Length: 1})
	}
	return M, nil
}

// Len returns the number of atoms in the graph.
func (M *Molecule) Len() int {
	return len(M.atoms)
}

// Atom returns the ith atom. It panics if i is out of range.
func (M *Molecule) Atom(i int) *Atom {
	return M.atoms[i]
}

// Neighbors returns the sorted indexes of the atoms bonded to atom i.
func (M *Molecule) Neighbors(i int) []int {
	nodes := M.From(int64(i))
	ret := make([]int, 0, nodes.Len())
	for nodes.Next() {
		ret = append(ret, int(nodes.Node().ID()))
	}
	sort.Ints(ret)
	return ret
}

// Degree returns the number of atoms bonded to atom i.
func (M *Molecule) Degree(i int) int {
	return M.From(int64(i)).Len()
}

// HydrogenCount returns the number of hydrogens bonded to atom i.
func (M *Molecule) HydrogenCount(i int) int {
	var n int
	for _, v := range M.Neighbors(i) {
		if M.atoms[v].Symbol == "H" {
			n++
		}
	}
	return n
}

// AtomicNumber returns the atomic number of atom i, or 0 if its element is not known.
func (M *Molecule) AtomicNumber(i int) int {
	return chem.AtomicNumber(M.atoms[i].Symbol)
}

// FormalCharge returns the charge of atom i rounded to the nearest integer.
func (M *Molecule) FormalCharge(i int) int {
	return int(math.Round(M.atoms[i].Charge))
}

// Bonded returns true if atoms i and j are bonded.
func (M *Molecule) Bonded(i, j int) bool {
	return M.HasEdgeBetween(int64(i), int64(j))
}

// Fragments returns the connected components of the graph, each one as a sorted
// slice of atom indexes. Fragments are sorted by their first atom.
func (M *Molecule) Fragments() [][]int {
	cc := topo.ConnectedComponents(M)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		f := make([]int, len(c))
		for i, n := range c {
			f[i] = int(n.ID())
		}
		sort.Ints(f)
		ret = append(ret, f)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

// Path returns the indexes of the atoms in the shortest bonded path from atom i to atom j,
// both included, and its length. The path is nil and the length +Inf if there is no path.
func (M *Molecule) Path(i, j int) ([]int, float64) {
	sh := path.DijkstraFrom(M.atoms[i], M)
	nodes, w := sh.To(int64(j))
	if len(nodes) == 0 {
		return nil, math.Inf(1)
	}
	ret := make([]int, len(nodes))
	for k, n := range nodes {
		ret[k] = int(n.ID())
	}
	return ret, w
}

// BondCount returns the number of bonds in the graph.
func (M *Molecule) BondCount() int {
	return M.Edges().Len()
}
