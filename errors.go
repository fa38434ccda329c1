/*
 * errors.go, part of govdw.
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

package chem

import (
	"errors"
	"fmt"
	"strings"
)

// CError is the error type for the chem package. The decoration
// slice contains the names of the functions the error went through.
type CError struct {
	msg  string
	deco []string
}

func (err *CError) Error() string { return err.msg }

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// String returns the message of the error with its decorations.
func (err *CError) String() string {
	if len(err.deco) == 0 {
		return err.msg
	}
	return fmt.Sprintf("%s (%s)", err.msg, strings.Join(err.deco, " <- "))
}

// errDecorate is a helper function that checks whether the error
// implements chem.Error and decorates the error with the caller's name before returning it.
// Other errors are wrapped with the caller's name.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var err2 Error
	if errors.As(err, &err2) {
		err2.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}

// lastFrameError is returned by trajectories (including Molecule) when
// there are no more frames to read. It is not really an error.
type lastFrameError struct {
	fileName string
	frame    int
	deco     []string
}

func newlastFrameError(filename string, frame int) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.frame = frame
	return e
}

func (E *lastFrameError) Error() string {
	return fmt.Sprintf("EOF reached after %d frames", E.frame)
}

func (E *lastFrameError) Decorate(dec string) []string {
	if dec == "" {
		return E.deco
	}
	E.deco = append(E.deco, dec)
	return E.deco
}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) FileFormat() string { return "Molecule" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) NormalLastFrameTermination() {}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrAtomOutOfRange = PanicMsg("govdw: Requested/Put atom is out of range")
