/*
 * commands.go, part of govdw.
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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	chem "github.com/rmera/govdw"
	"github.com/rmera/govdw/chemgraph"
	"github.com/rmera/govdw/chemplot"
	"github.com/rmera/govdw/ff"
	"github.com/rmera/govdw/histo"
	"github.com/rmera/govdw/internal/logging"
	"github.com/rmera/govdw/top"
	"github.com/rmera/govdw/units"
	"github.com/rmera/govdw/vdw"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/unit"
)

// usageError marks errors caused by bad command line arguments.
type usageError struct {
	err error
}

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usagef(format string, a ...any) error {
	return usageError{fmt.Errorf(format, a...)}
}

// checkArgs makes the errors of v usage errors.
func checkArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// options shared by all the subcommands.
type options struct {
	logLevel   string
	logFormat  string
	ffFile     string
	topFile    string
	defines    []string
	frame      int
	coordUnit  string
	energyUnit string
	jsonOutput bool

	lu unit.Length
	eu units.MolarEnergy
}

// newRootCommand creates the govdw command tree.
//
// Commands provided:
//   - energy <coords> [--traj]
//   - distances <coords> [--bins n] [--plot file]
//   - pairs <coords> [--limit n]
//   - types [coords] [--gro]
//   - plot <file> [--keys a,b] [--rmin r] [--rmax r]
//
// Global flags: --log-level, --log-format, --ff, --top, --define, --frame,
// --unit, --energy-unit, --json
func newRootCommand() *cobra.Command {
	o := new(options)
	cmd := &cobra.Command{
		Use:   "govdw",
		Short: "Lennard-Jones energies of small molecular systems",
		Long:  "govdw assigns Lennard-Jones parameters to the atoms of a structure, from a SMIRNOFF-style force field (--ff) or a Gromacs topology (--top), and computes their van der Waals energy.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.FromEnv(logging.Config{Level: o.logLevel, Format: o.logFormat})
			if _, err := logging.Setup(cfg, cmd.ErrOrStderr()); err != nil {
				return usageError{err}
			}
			var err error
			if o.lu, err = units.ParseLength(o.coordUnit); err != nil {
				return usageError{err}
			}
			if o.eu, err = units.ParseMolarEnergy(o.energyUnit); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error (env "+logging.EnvLevel+")")
	pf.StringVar(&o.logFormat, "log-format", "", "Log format: text or json (env "+logging.EnvFormat+")")
	pf.StringVar(&o.ffFile, "ff", "", "SMIRNOFF-style force field in TOML format")
	pf.StringVar(&o.topFile, "top", "", "Gromacs topology")
	pf.StringSliceVar(&o.defines, "define", nil, "Preprocessor flags defined when reading the Gromacs topology")
	pf.IntVar(&o.frame, "frame", 0, "Frame of the coordinates file to use")
	pf.StringVar(&o.coordUnit, "unit", "angstrom", "Length unit of the coordinates")
	pf.StringVar(&o.energyUnit, "energy-unit", "kJ/mol", "Energy unit for the output")
	pf.BoolVar(&o.jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(energyCmd(o))
	cmd.AddCommand(distancesCmd(o))
	cmd.AddCommand(pairsCmd(o))
	cmd.AddCommand(typesCmd(o))
	cmd.AddCommand(plotCmd(o))
	return cmd
}

// system reads the coordinates in name and builds the system with the force field
// or topology given.
func (o *options) system(name string) (*ff.System, *chem.Molecule, error) {
	if (o.ffFile == "") == (o.topFile == "") {
		return nil, nil, usagef("exactly one of --ff and --top must be given")
	}
	mol, err := chem.ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	if o.frame < 0 || o.frame >= mol.LenFrames() {
		return nil, nil, usagef("frame %d requested, %s has %d", o.frame, name, mol.LenFrames())
	}
	slog.Debug("Read coordinates", "file", name, "atoms", mol.Len(), "frames", mol.LenFrames())
	if o.topFile != "" {
		F, err := top.ReadFile(o.topFile, true, o.defines...)
		if err != nil {
			return nil, nil, err
		}
		sys, err := F.System(mol.Coords[o.frame], o.lu)
		return sys, mol, err
	}
	field, err := ff.LoadForceField(o.ffFile)
	if err != nil {
		return nil, nil, err
	}
	sys, err := ff.NewSystem(mol, o.frame, field, ff.CoordUnit(o.lu))
	return sys, mol, err
}

// term returns the vdW term of the force field or topology, with the
// potentials keyed by atom type names.
func (o *options) term() (*ff.Term, error) {
	if (o.ffFile == "") == (o.topFile == "") {
		return nil, usagef("exactly one of --ff and --top must be given")
	}
	term := ff.NewTerm(ff.VdWTerm)
	if o.topFile != "" {
		F, err := top.ReadFile(o.topFile, true, o.defines...)
		if err != nil {
			return nil, err
		}
		for _, t := range F.ATypes {
			term.Potentials[t.Name] = ff.NewLJPotential(t.Name, "", unit.Length(t.Sigma)*units.Nanometre, units.MolarEnergy(t.Epsilon)*units.KJPerMol)
		}
		return term, nil
	}
	field, err := ff.LoadForceField(o.ffFile)
	if err != nil {
		return nil, err
	}
	for _, t := range field.Types() {
		term.Potentials[t.ID] = t.Potential()
	}
	return term, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func energyCmd(o *options) *cobra.Command {
	var traj bool
	cmd := &cobra.Command{
		Use:   "energy <coords>",
		Short: "Van der Waals energy of a structure",
		Long:  "Compute the Lennard-Jones energy of a frame, or of every frame with --traj.",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, mol, err := o.system(args[0])
			if err != nil {
				return err
			}
			var energies []units.MolarEnergy
			if traj {
				energies, err = vdw.ComputeVdWTraj(sys, mol)
			} else {
				var e units.MolarEnergy
				e, err = vdw.ComputeVdW(sys)
				energies = append(energies, e)
			}
			if err != nil {
				return err
			}
			vals := make([]float64, len(energies))
			for i, e := range energies {
				vals[i] = e.In(o.eu)
			}
			if o.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), struct {
					Unit     string    `json:"unit"`
					Energies []float64 `json:"energies"`
				}{units.EnergyName(o.eu), vals})
			}
			for i, v := range vals {
				frame := o.frame
				if traj {
					frame = i
				}
				fmt.Fprintf(cmd.OutOrStdout(), "frame %d: %.6f %s\n", frame, v, units.EnergyName(o.eu))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&traj, "traj", false, "Compute the energy of every frame")
	return cmd
}

func distancesCmd(o *options) *cobra.Command {
	var (
		bins     int
		plotFile string
	)
	cmd := &cobra.Command{
		Use:   "distances <coords>",
		Short: "Interatomic distances",
		Long:  "Print the distance matrix, or a histogram of the pair distances with --bins.",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bins < 0 {
				return usagef("--bins must be positive")
			}
			sys, _, err := o.system(args[0])
			if err != nil {
				return err
			}
			d, err := vdw.BuildDistanceMatrix(sys)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pairs := d.Pairs(o.lu)
			if bins == 0 && plotFile == "" {
				if o.jsonOutput {
					n, _ := d.Dims()
					rows := make([][]float64, n)
					for i := range rows {
						rows[i] = make([]float64, n)
						for j := range rows[i] {
							rows[i][j] = float64(d.Length(i, j) / o.lu)
						}
					}
					return writeJSON(out, rows)
				}
				n, _ := d.Dims()
				for i := 0; i < n; i++ {
					row := make([]string, n)
					for j := range row {
						row[j] = fmt.Sprintf("%8.3f", float64(d.Length(i, j)/o.lu))
					}
					fmt.Fprintln(out, strings.Join(row, " "))
				}
				return nil
			}
			if len(pairs) == 0 {
				return fmt.Errorf("a single atom has no pair distances")
			}
			if bins == 0 {
				bins = 20
			}
			sum := histo.Summarize(pairs)
			hi := sum.Max
			if hi == sum.Min {
				hi = sum.Min + 1
			}
			h := histo.NewData(histo.Uniform(sum.Min, hi*(1+1e-9), bins), pairs)
			if plotFile != "" {
				if err := chemplot.HistogramFile(h, "Pair distances", "r ("+units.LengthName(o.lu)+")", plotFile); err != nil {
					return err
				}
				slog.Info("Histogram saved", "file", plotFile)
			}
			if o.jsonOutput {
				return writeJSON(out, struct {
					Summary   histo.Summary `json:"summary"`
					Histogram *histo.Data   `json:"histogram"`
				}{sum, h})
			}
			fmt.Fprintln(out, sum)
			fmt.Fprintln(out, h)
			return nil
		},
	}
	cmd.Flags().IntVar(&bins, "bins", 0, "Number of bins for a histogram of the distances")
	cmd.Flags().StringVar(&plotFile, "plot", "", "Save a plot of the histogram to this file")
	return cmd
}

// separation describes how many bonds apart the atoms of pair are.
func separation(sys *ff.System, pair [2]int) string {
	g, err := chemgraph.FromBonds(sys.Topology)
	if err != nil {
		slog.Debug("No molecular graph", "error", err)
		return "unknown bonding"
	}
	p, _ := g.Path(pair[0], pair[1])
	if p == nil {
		return "not connected"
	}
	return fmt.Sprintf("%d bonds apart", len(p)-1)
}

func pairsCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "pairs <coords>",
		Short: "Lennard-Jones energy of each pair of atoms",
		Long:  "List the pair interactions, from the most attractive to the most repulsive.",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, _, err := o.system(args[0])
			if err != nil {
				return err
			}
			pairs, err := vdw.PairEnergies(sys)
			if err != nil {
				return err
			}
			over, worst, err := vdw.HighestOverlap(sys)
			if err != nil {
				return err
			}
			vals := make([]float64, len(pairs))
			for i, p := range pairs {
				vals[i] = p.Energy.In(o.eu)
			}
			if limit > 0 && limit < len(pairs) {
				pairs = pairs[:limit]
			}
			out := cmd.OutOrStdout()
			if o.jsonOutput {
				type jpair struct {
					I       int     `json:"i"`
					J       int     `json:"j"`
					R       float64 `json:"r"`
					Sigma   float64 `json:"sigma"`
					Epsilon float64 `json:"epsilon"`
					Energy  float64 `json:"energy"`
				}
				jp := make([]jpair, len(pairs))
				for k, p := range pairs {
					jp[k] = jpair{p.I, p.J, float64(p.R / o.lu), float64(p.Sigma / o.lu), p.Epsilon.In(o.eu), p.Energy.In(o.eu)}
				}
				return writeJSON(out, jp)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "I\tJ\tR (%s)\tSIGMA\tEPSILON\tENERGY (%s)\n", units.LengthName(o.lu), units.EnergyName(o.eu))
			for _, p := range pairs {
				fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.5f\t%.6f\n", p.I, p.J, float64(p.R/o.lu), float64(p.Sigma/o.lu), p.Epsilon.In(o.eu), p.Energy.In(o.eu))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(vals) > 0 {
				fmt.Fprintf(out, "pair energies: %s\n", histo.Summarize(vals))
				fmt.Fprintf(out, "highest overlap: %.4f %s between atoms %d and %d (%s)\n", float64(over/o.lu), units.LengthName(o.lu), worst[0], worst[1], separation(sys, worst))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Print only the first n pairs")
	return cmd
}

func typesCmd(o *options) *cobra.Command {
	var gro bool
	cmd := &cobra.Command{
		Use:   "types [coords]",
		Short: "Parameters assigned to each atom",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !gro && len(args) == 0 {
				return usagef("a coordinates file is needed")
			}
			if gro {
				if o.topFile == "" {
					return usagef("--gro needs a Gromacs topology")
				}
				F, err := top.ReadFile(o.topFile, true, o.defines...)
				if err != nil {
					return err
				}
				return F.WriteAtomTypes(out)
			}
			sys, _, err := o.system(args[0])
			if err != nil {
				return err
			}
			term, err := sys.TermCollection.Term(ff.VdWTerm)
			if err != nil {
				return err
			}
			slots, err := sys.Slots(ff.VdWTerm)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ATOM\tSYMBOL\tTYPE\tSIGMA (%s)\tEPSILON (%s)\n", units.LengthName(o.lu), units.EnergyName(o.eu))
			for _, s := range slots {
				p, err := term.Potential(s)
				if err != nil {
					return err
				}
				sig, eps, err := p.LJ()
				if err != nil {
					return err
				}
				i := s.Atom(0)
				fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%.5f\n", i, sys.Topology.Atom(i).Symbol, p.ID, float64(sig/o.lu), eps.In(o.eu))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&gro, "gro", false, "Write the atom types of the Gromacs topology in Gromacs format instead")
	return cmd
}

func plotCmd(o *options) *cobra.Command {
	var (
		keys       []string
		rmin, rmax float64
	)
	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Plot the mixed Lennard-Jones curves of the atom types",
		Long:  "Plot the Lennard-Jones curve of each pair of atom types. The format is taken from the file extension.",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(rmin > 0) || !(rmax > rmin) {
				return usagef("invalid range %g-%g", rmin, rmax)
			}
			term, err := o.term()
			if err != nil {
				return err
			}
			err = chemplot.LJCurvesFile(term, keys, unit.Length(rmin)*o.lu, unit.Length(rmax)*o.lu, o.lu, o.eu, args[0])
			if errors.Is(err, ff.ErrMissingParameter) {
				return usageError{err}
			}
			return err
		},
	}
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Atom types to plot (all by default)")
	cmd.Flags().Float64Var(&rmin, "rmin", 2.5, "Shortest distance, in the coordinate unit")
	cmd.Flags().Float64Var(&rmax, "rmax", 8, "Longest distance, in the coordinate unit")
	return cmd
}
