/*
 * doc.go, part of govdw.
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

/*Package chem is the main package of the govdw library. It provides atom and molecule structures,
facilities for reading the coordinate files needed to compute non-bonded energies, and the
distance-based bond assignment used to type atoms.

	**govdw Capabilities**

    Reads XYZ (single and multi-frame) and PDBx/mmCIF files, optionally
	compressed with zstd or gzip.

    Assigns bonds from interatomic distances and covalent radii.

    Builds the molecular graph used to match SMIRKS patterns (package chemgraph)
	and assigns Lennard-Jones parameters from SMIRNOFF-style force fields
	(package ff) or Gromacs topologies (package top).

    Computes the distance matrix and the van der Waals (Lennard-Jones) energy
	of small systems, per frame or along a trajectory (package vdw).

    Plots mixed Lennard-Jones pair curves (package chemplot) and histograms
	of interatomic distances (package histo).

Coordinates are stored in v3.Matrix objects, based on gonum's (gonum.org/v1/gonum/mat) Dense.
Each row of a v3.Matrix represents one point in space. As in goChem, lengths are
in Angstrom unless something else is stated.

The van der Waals code is a reference implementation, intended only for small
systems: there are no neighbor lists, cutoffs or exclusions.*/
package chem
