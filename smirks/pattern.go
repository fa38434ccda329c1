/*
 * pattern.go, part of govdw.
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

package smirks

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Graph is a molecular graph patterns can be matched against. All hydrogens are
// expected to be explicit atoms of the graph. chemgraph.Molecule implements it.
type Graph interface {
	Len() int
	Neighbors(i int) []int
	Degree(i int) int
	HydrogenCount(i int) int
	AtomicNumber(i int) int
	FormalCharge(i int) int
}

type atomExpr interface {
	matches(g Graph, i int) bool
}

type primKind int

const (
	anyAtom primKind = iota
	atomicNum
	connectivity
	degree
	hcount
	charge
)

type primitive struct {
	kind  primKind
	value int
}

// With all hydrogens explicit, total connectivity and degree are the same.
func (p primitive) matches(g Graph, i int) bool {
	switch p.kind {
	case anyAtom:
		return true
	case atomicNum:
		return g.AtomicNumber(i) == p.value
	case connectivity, degree:
		return g.Degree(i) == p.value
	case hcount:
		return g.HydrogenCount(i) == p.value
	case charge:
		return g.FormalCharge(i) == p.value
	}
	return false
}

type notExpr struct{ e atomExpr }

func (n notExpr) matches(g Graph, i int) bool { return !n.e.matches(g, i) }

type andExpr []atomExpr

func (a andExpr) matches(g Graph, i int) bool {
	for _, e := range a {
		if !e.matches(g, i) {
			return false
		}
	}
	return true
}

type orExpr []atomExpr

func (o orExpr) matches(g Graph, i int) bool {
	for _, e := range o {
		if e.matches(g, i) {
			return true
		}
	}
	return false
}

// Pattern is a compiled SMIRKS pattern. Patterns are trees: there are no ring closures.
type Pattern struct {
	src    string
	atoms  []atomExpr
	maps   []int
	adj    [][]int
	tagged []int //pattern atoms ordered by map index
	order  []int //breadth-first from the first tagged atom
	parent []int
}

func (P *Pattern) addAtom(e atomExpr, mapIdx int) int {
	P.atoms = append(P.atoms, e)
	P.maps = append(P.maps, mapIdx)
	P.adj = append(P.adj, nil)
	return len(P.atoms) - 1
}

func (P *Pattern) addBond(a, b int) {
	P.adj[a] = append(P.adj[a], b)
	P.adj[b] = append(P.adj[b], a)
}

// index checks the map indexes and sets up the search order.
func (P *Pattern) index() error {
	bymap := make(map[int]int)
	for i, m := range P.maps {
		if m == 0 {
			continue
		}
		if _, ok := bymap[m]; ok {
			return fmt.Errorf("%w: %q: map index %d repeated", ErrSyntax, P.src, m)
		}
		bymap[m] = i
	}
	for m := 1; m <= len(bymap); m++ {
		i, ok := bymap[m]
		if !ok {
			return fmt.Errorf("%w: %q: map indexes must go from 1 to %d", ErrSyntax, P.src, len(bymap))
		}
		P.tagged = append(P.tagged, i)
	}
	if len(P.tagged) == 0 {
		P.tagged = []int{0}
	}
	root := P.tagged[0]
	P.parent = make([]int, len(P.atoms))
	seen := make([]bool, len(P.atoms))
	P.order = []int{root}
	P.parent[root] = -1
	seen[root] = true
	for k := 0; k < len(P.order); k++ {
		a := P.order[k]
		for _, b := range P.adj[a] {
			if !seen[b] {
				seen[b] = true
				P.parent[b] = a
				P.order = append(P.order, b)
			}
		}
	}
	return nil
}

// String returns the pattern as it was given to Parse.
func (P *Pattern) String() string {
	return P.src
}

// Len returns the number of atoms in the pattern.
func (P *Pattern) Len() int {
	return len(P.atoms)
}

// Tagged returns the number of atoms a match reports.
func (P *Pattern) Tagged() int {
	return len(P.tagged)
}

type matcher struct {
	p      *Pattern
	g      Graph
	assign []int
	used   map[int]bool
}

// search maps the pattern atoms from k on. It stops, returning true, as soon as found does.
func (m *matcher) search(k int, roots []int, found func([]int) bool) bool {
	if k == len(m.p.order) {
		return found(m.assign)
	}
	pa := m.p.order[k]
	candidates := roots
	if k > 0 {
		candidates = m.g.Neighbors(m.assign[m.p.parent[pa]])
	}
	for _, c := range candidates {
		if m.used[c] || !m.p.atoms[pa].matches(m.g, c) {
			continue
		}
		m.assign[pa] = c
		m.used[c] = true
		stop := m.search(k+1, roots, found)
		m.used[c] = false
		if stop {
			return true
		}
	}
	return false
}

func (P *Pattern) newMatcher(g Graph) *matcher {
	return &matcher{p: P, g: g, assign: make([]int, len(P.atoms)), used: make(map[int]bool)}
}

// MatchesAtom returns true if the pattern matches g with its first tagged atom on atom i.
func (P *Pattern) MatchesAtom(g Graph, i int) bool {
	if i < 0 || i >= g.Len() {
		return false
	}
	return P.newMatcher(g).search(0, []int{i}, func([]int) bool { return true })
}

// Matches returns every distinct tuple of graph atoms the tagged atoms of the pattern
// can be mapped onto, ordered by map index. Tuples are sorted.
func (P *Pattern) Matches(g Graph) [][]int {
	seen := make(map[string]bool)
	var ret [][]int
	m := P.newMatcher(g)
	for i := 0; i < g.Len(); i++ {
		m.search(0, []int{i}, func(assign []int) bool {
			t := make([]int, len(P.tagged))
			keys := make([]string, len(P.tagged))
			for k, pa := range P.tagged {
				t[k] = assign[pa]
				keys[k] = strconv.Itoa(t[k])
			}
			key := strings.Join(keys, "-")
			if !seen[key] {
				seen[key] = true
				ret = append(ret, t)
			}
			return false
		})
	}
	sort.Slice(ret, func(i, j int) bool {
		for k := range ret[i] {
			if ret[i][k] != ret[j][k] {
				return ret[i][k] < ret[j][k]
			}
		}
		return false
	})
	return ret
}
