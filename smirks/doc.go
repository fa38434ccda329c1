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
Package smirks parses and matches the subset of SMIRKS used to assign
van der Waals parameters.

Supported are bracket atoms with the primitives *, #n, element symbols, Xn, Dn, Hn and
charges (+, -, +n, -n), combined with !, &, ; and , or implicit AND, the :n map indexes,
bare organic-subset atoms, branches and bonds. Bond expressions match any bond, as bonds
assigned from distances have no order. Ring closures, aromatic atoms, ring primitives,
chirality, recursive $() patterns and disconnected patterns return ErrUnsupported.
*/
package smirks
