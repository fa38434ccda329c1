/*
 * ljplot.go, part of govdw.
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

package chemplot

import (
	"fmt"
	"math"

	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/units"
	"github.com/rmera/govdw/vdw"
	"gonum.org/v1/gonum/unit"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PairCurve is the Lennard-Jones potential between atoms with the potentials
// Keys, with the mixed parameters.
type PairCurve struct {
	Keys    [2]string
	Sigma   unit.Length
	Epsilon units.MolarEnergy
}

// Energy returns the energy of the pair at the distance r.
func (P PairCurve) Energy(r unit.Length) units.MolarEnergy {
	return vdw.LennardJones(r, P.Sigma, P.Epsilon)
}

// PairCurves returns a curve for each unordered pair of the given potential keys of term,
// including each key with itself, in the order of keys. If keys is nil, all the potentials
// in term are used.
func PairCurves(term *ff.Term, keys []string) ([]PairCurve, error) {
	if keys == nil {
		keys = term.Keys()
	}
	sig := make([]unit.Length, len(keys))
	eps := make([]units.MolarEnergy, len(keys))
	for i, k := range keys {
		p, ok := term.Potentials[k]
		if !ok || p == nil {
			return nil, fmt.Errorf("chemplot: no potential %q in term %s: %w", k, term.Name, ff.ErrMissingParameter)
		}
		var err error
		if sig[i], eps[i], err = p.LJ(); err != nil {
			return nil, fmt.Errorf("chemplot: %w", err)
		}
	}
	ret := make([]PairCurve, 0, len(keys)*(len(keys)+1)/2)
	for i := range keys {
		for j := i; j < len(keys); j++ {
			s, e := vdw.Mix(sig[i], eps[i], sig[j], eps[j])
			ret = append(ret, PairCurve{Keys: [2]string{keys[i], keys[j]}, Sigma: s, Epsilon: e})
		}
	}
	return ret, nil
}

// LJCurves returns a plot of the mixed Lennard-Jones curves between the given keys
// of term (see PairCurves) from rmin to rmax. The axes are in units of lengthUnit
// and energyUnit.
func LJCurves(term *ff.Term, keys []string, rmin, rmax, lengthUnit unit.Length, energyUnit units.MolarEnergy) (*plot.Plot, error) {
	if !(rmin > 0) || !(rmax > rmin) {
		return nil, fmt.Errorf("chemplot: invalid distance range %v-%v", rmin, rmax)
	}
	curves, err := PairCurves(term, keys)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = "Lennard-Jones pair potentials"
	p.X.Label.Text = fmt.Sprintf("r (%s)", units.LengthName(lengthUnit))
	p.Y.Label.Text = fmt.Sprintf("E (%s)", units.EnergyName(energyUnit))
	p.Add(plotter.NewGrid())
	var maxeps float64
	for i, c := range curves {
		c := c
		f := plotter.NewFunction(func(x float64) float64 {
			return c.Energy(unit.Length(x) * lengthUnit).In(energyUnit)
		})
		f.XMin = float64(rmin / lengthUnit)
		f.XMax = float64(rmax / lengthUnit)
		f.Samples = 200
		f.Color = colors(i, len(curves))
		f.Width = vg.Points(1.5)
		p.Add(f)
		p.Legend.Add(c.Keys[0]+"-"+c.Keys[1], f)
		maxeps = math.Max(maxeps, c.Epsilon.In(energyUnit))
	}
	p.X.Min = float64(rmin / lengthUnit)
	p.X.Max = float64(rmax / lengthUnit)
	//the repulsive wall would hide the wells otherwise.
	if maxeps > 0 {
		p.Y.Min = -1.2 * maxeps
		p.Y.Max = 1.2 * maxeps
	}
	return p, nil
}

// LJCurvesFile saves the plot from LJCurves to the file name. The format is
// taken from the extension (png, svg, pdf, ...).
func LJCurvesFile(term *ff.Term, keys []string, rmin, rmax, lengthUnit unit.Length, energyUnit units.MolarEnergy, name string) error {
	p, err := LJCurves(term, keys, rmin, rmax, lengthUnit, energyUnit)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}
