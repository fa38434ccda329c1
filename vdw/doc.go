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

/*
Package vdw computes the van der Waals (Lennard-Jones) energy of a system.

Every ordered pair of vdW slots is visited, skipping only a slot paired with itself.
Pairs are not symmetry-reduced, so each unordered pair contributes twice, and bonded
neighbours are not excluded. Parameters are mixed with the Lorentz-Berthelot rules,
the arithmetic mean of sigma and the geometric mean of epsilon, and each pair
contributes

	E = 4 eps ((sig/r)^12 - (sig/r)^6)

There are no cutoffs or neighbour lists: the distance matrix has every pair of atoms,
so this package is meant for small systems.
*/
package vdw
