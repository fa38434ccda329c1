/*
 * main.go, part of govdw.
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

// Command govdw computes the Lennard-Jones (van der Waals) energy of small
// molecular systems read from XYZ or PDBx/mmCIF files, with parameters from a
// SMIRNOFF-style TOML force field or a Gromacs topology.
//
// Logging is configured with --log-level and --log-format, or the environment
// variables GOVDW_LOG_LEVEL and GOVDW_LOG_FORMAT. Logs go to stderr.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// CLI exit codes.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps errors to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var u usageError
	switch {
	case errors.As(err, &u):
		return ExitInvalidArgs
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitInvalidArgs
	default:
		return ExitGeneralError
	}
}
