/*
 * histogram.go, part of govdw.
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
	"github.com/rmera/govdw/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram returns a bar plot of the histogram d.
func Histogram(d *histo.Data, title, xlabel string) *plot.Plot {
	div := d.CopyDividers()
	bins := make([]plotter.HistogramBin, 0, len(div)-1)
	for i, w := range d.View() {
		bins = append(bins, plotter.HistogramBin{Min: div[i], Max: div[i+1], Weight: w})
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     div[1] - div[0],
		FillColor: colors(0, 1),
		LineStyle: plotter.DefaultLineStyle,
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "count"
	if d.Normalized() {
		p.Y.Label.Text = "fraction"
	}
	p.Add(plotter.NewGrid(), h)
	return p
}

// HistogramFile saves the plot from Histogram to the file name.
func HistogramFile(d *histo.Data, title, xlabel, name string) error {
	return Histogram(d, title, xlabel).Save(6*vg.Inch, 4*vg.Inch, name)
}
