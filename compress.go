/*
 * compress.go, part of govdw.
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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// zstd.Decoder's Close doesn't return an error, so it doesn't
// implement io.ReadCloser on its own.
type zstdCloser struct {
	*zstd.Decoder
}

// Close releases the resources of the decoder. It can not be used after this call.
func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// compressedFile closes both the decompressor and the underlying file.
type compressedFile struct {
	io.ReadCloser
	f *os.File
}

func (c *compressedFile) Close() error {
	err := c.ReadCloser.Close()
	if err2 := c.f.Close(); err == nil {
		err = err2
	}
	return err
}

// OpenFile opens the file name for reading. Files ending in .zst or .zstd are decompressed with
// z-standard, files ending in .gz with gzip. Other files are returned as they are.
// The caller must close the returned ReadCloser.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "OpenFile")
	}
	var dec io.ReadCloser
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"), strings.HasSuffix(lname, ".zstd"):
		var r *zstd.Decoder
		r, err = zstd.NewReader(bufio.NewReader(f))
		if err == nil {
			dec = zstdCloser{r}
		}
	case strings.HasSuffix(lname, ".gz"):
		dec, err = gzip.NewReader(bufio.NewReader(f))
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, &CError{"Can't decompress " + name + ": " + err.Error(), []string{"OpenFile"}}
	}
	return &compressedFile{dec, f}, nil
}

// trimCompressionExt returns name without a compression extension.
func trimCompressionExt(name string) string {
	for _, ext := range []string{".zst", ".zstd", ".gz"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
