/*
 * gromacsheaders.go, part of govdw.
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
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Utility functions

func qerr(err error) {
	if err != nil {
		panic(err.Error())
	}
}

func fi(s string) []string {
	return strings.Fields(s)
}

func parseints(s ...string) ([]int, error) {
	r := make([]int, 0, len(s))
	for _, v := range s {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

func parsefloats(s ...string) ([]float64, error) {
	r := make([]float64, 0, len(s))
	for _, v := range s {
		i, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

// Returns a string without gromacs comments (sequences starting with ';'),
// trailing and leading spaces, tabs and newlines
func cleanString(s string) string {
	f := strings.Split(s, ";")[0]
	return strings.Trim(f, "\r\n\t ")
}

func sigmaEpsilonToC6C12(sigma, e float64) (c6 float64, c12 float64) {
	return 4 * e * math.Pow(sigma, 6), 4 * e * math.Pow(sigma, 12)
}

// A zero C6 or C12 gives a type with no Lennard-Jones interaction.
func c6c12ToSigmaEpsilon(c6, c12 float64) (sigma float64, epsilon float64) {
	if c6 == 0 || c12 == 0 {
		return 0, 0
	}
	return math.Pow(c12/c6, 1.0/6.0), c6 * c6 / (4 * c12)
}

type topHeader struct {
	wany  *regexp.Regexp
	names map[string]string
}

func newTopHeader() *topHeader {
	T := new(topHeader)
	T.wany = regexp.MustCompile(`^\[\p{Zs}*([A-Za-z0-9_]+)\p{Zs}*\]$`)
	//Gromacs section names to the ones used internally. Sections not here are
	//kept under their own name and skipped by the reader.
	T.names = map[string]string{
		"defaults":            "defaults",
		"atomtypes":           "atomtypes",
		"nonbond_params":      "nonbond",
		"pairtypes":           "pairtypes",
		"moleculetype":        "moleculetype",
		"atoms":               "atoms",
		"bonds":               "bonds",
		"molecules":           "molecules",
		"virtual_sitesn":      "vsitesn",
		"virtual_sites2":      "vsites2",
		"virtual_sites3":      "vsites3",
		"constraints":         "constraints",
		"exclusions":          "exclusions",
		"settles":             "settles",
		"position_restraints": "posres",
	}
	return T
}

// Is returns true if the line is a Gromacs header. It discards comments.
func (T *topHeader) Is(line string) bool {
	return T.wany.MatchString(cleanString(line))
}

// Which returns the section the header line opens, or an empty string
// if the line is not a header.
func (T *topHeader) Which(line string) string {
	m := T.wany.FindStringSubmatch(cleanString(line))
	if m == nil {
		return ""
	}
	name := strings.ToLower(m[1])
	if n, ok := T.names[name]; ok {
		return n
	}
	return name
}

// StringReader is anything that reads strings up to a delimiter, like a bufio.Reader.
type StringReader interface {
	ReadString(byte) (string, error)
}
