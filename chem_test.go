package chem

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/govdw/v3"
)

func TestXYZRead(Te *testing.T) {
	mol, err := XYZFileRead("testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 9 || mol.LenFrames() != 1 {
		Te.Fatalf("expected 9 atoms in 1 frame, got %d atoms and %d frames", mol.Len(), mol.LenFrames())
	}
	if s := mol.Atom(2).Symbol; s != "O" {
		Te.Errorf("atom 2 should be an oxygen, got %s", s)
	}
	if m := mol.Atom(0).Mass; m != 12.01 {
		Te.Errorf("wrong mass for carbon %f", m)
	}
	if x := mol.Coords[0].At(3, 0); x != -1.9237 {
		Te.Errorf("wrong coordinate %f", x)
	}
}

func TestXYZMultiFrame(Te *testing.T) {
	mol, err := XYZFileRead("testdata/argon.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.LenFrames() != 3 {
		Te.Fatalf("expected 3 frames, got %d", mol.LenFrames())
	}
	out := v3.Zeros(mol.Len())
	read := 0
	for {
		err := mol.Next(out)
		if err != nil {
			var lf LastFrameError
			if !errors.As(err, &lf) {
				Te.Fatalf("unexpected error %v", err)
			}
			break
		}
		read++
	}
	if read != 3 {
		Te.Errorf("read %d frames, expected 3", read)
	}
	if out.At(1, 0) != 5.0 {
		Te.Errorf("last frame not copied into output: %v", out)
	}
	if err := mol.InitRead(); err != nil || !mol.Readable() {
		Te.Errorf("molecule should be readable again after InitRead: %v", err)
	}
}

func TestXYZBadInput(Te *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"count":     "two\n\nAr 0 0 0\n",
		"truncated": "2\n\nAr 0 0 0\n",
		"coords":    "1\n\nAr 0 x 0\n",
		"frames":    "1\n\nAr 0 0 0\n2\n\nAr 0 0 0\nAr 1 1 1\n",
	}
	for name, in := range cases {
		if _, err := XYZRead(strings.NewReader(in)); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
}

func TestXYZWrite(Te *testing.T) {
	mol, err := XYZFileRead("testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := XYZWrite(&buf, mol.Coords, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := XYZRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < mol.Len(); i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(mol.Coords[0].At(i, j)-mol2.Coords[0].At(i, j)) > 1e-6 {
				Te.Errorf("coordinates changed after writing: %v %v", mol.Coords[0], mol2.Coords[0])
			}
		}
	}
}

func TestPDBxRead(Te *testing.T) {
	mol, err := PDBxFileRead("testdata/methane.cif")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 5 || mol.LenFrames() != 2 {
		Te.Fatalf("expected 5 atoms in 2 frames, got %d atoms and %d frames", mol.Len(), mol.LenFrames())
	}
	at := mol.Atom(1)
	if at.Symbol != "H" || at.Name != "H1" || at.MolName != "LIG" || at.ID != 2 || !at.Het {
		Te.Errorf("atom not read correctly: %+v", at)
	}
	if mol.Coords[1].At(0, 0) != 0.1 {
		Te.Errorf("wrong coordinates in the second model: %v", mol.Coords[1])
	}
	if mol.Bfactors[0][4] != 14 {
		Te.Errorf("wrong b-factors %v", mol.Bfactors[0])
	}
	var buf bytes.Buffer
	if err := PDBxWrite(&buf, mol.Coords, mol, mol.Bfactors); err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBxRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != 5 || mol2.LenFrames() != 2 || mol2.Atom(3).Name != "H3" {
		Te.Errorf("PDBx file not written correctly:\n%s", buf.String())
	}
}

func TestAssignBonds(Te *testing.T) {
	mol, err := XYZFileRead("testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	bonds, err := AssignBonds(mol.Coords[0], mol)
	if err != nil {
		Te.Fatal(err)
	}
	if len(bonds) != 8 {
		Te.Errorf("ethanol has 8 bonds, found %d", len(bonds))
	}
	valences := []int{4, 4, 2, 1, 1, 1, 1, 1, 1}
	for i, v := range valences {
		if n := len(mol.Atom(i).Bonds); n != v {
			Te.Errorf("atom %d %s has %d bonds, expected %d", i, mol.Atom(i).Symbol, n, v)
		}
	}
	o := mol.Atom(2)
	for _, b := range o.Bonds {
		if c := b.Cross(o); c.Symbol != "C" && c.Symbol != "H" {
			Te.Errorf("oxygen bonded to %s", c.Symbol)
		}
	}
	if !mol.HasBonds() {
		Te.Error("HasBonds should be true after AssignBonds")
	}
}

// A hydrogen close to two others keeps only its shortest bond.
func TestAssignBondsMaxValence(Te *testing.T) {
	ats := []*Atom{{Symbol: "H"}, {Symbol: "H"}, {Symbol: "H"}}
	top := NewTopology(0, 1, ats)
	c, _ := v3.NewMatrix([]float64{0, 0, 0, 0.8, 0, 0, -0.9, 0, 0})
	bonds, err := AssignBonds(c, top)
	if err != nil {
		Te.Fatal(err)
	}
	if len(bonds) != 1 || bonds[0].At2 != ats[1] {
		Te.Errorf("expected only the 0-1 bond, got %d bonds", len(bonds))
	}
	for i, a := range ats {
		if len(a.Bonds) > 1 {
			Te.Errorf("atom %d has %d bonds", i, len(a.Bonds))
		}
	}
}

func TestOpenCompressed(Te *testing.T) {
	orig, err := os.ReadFile("testdata/ethanol.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	zname := filepath.Join(dir, "ethanol.xyz.zst")
	zf, err := os.Create(zname)
	if err != nil {
		Te.Fatal(err)
	}
	zw, err := zstd.NewWriter(zf)
	if err != nil {
		Te.Fatal(err)
	}
	zw.Write(orig)
	zw.Close()
	zf.Close()

	gname := filepath.Join(dir, "ethanol.xyz.gz")
	gf, err := os.Create(gname)
	if err != nil {
		Te.Fatal(err)
	}
	gw := gzip.NewWriter(gf)
	gw.Write(orig)
	gw.Close()
	gf.Close()

	for _, name := range []string{zname, gname} {
		mol, err := ReadFile(name)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if mol.Len() != 9 {
			Te.Errorf("%s: expected 9 atoms, got %d", name, mol.Len())
		}
	}
	if _, err := ReadFile("testdata/ethanol.mol2"); err == nil {
		Te.Error("expected an error for an unknown format")
	}
}

func TestNewMoleculeMismatch(Te *testing.T) {
	top := NewTopology(0, 1, []*Atom{{Symbol: "C"}})
	c := v3.Zeros(2)
	if _, err := NewMolecule([]*v3.Matrix{c}, top, nil); err == nil {
		Te.Error("expected an error for mismatched atoms and coordinates")
	}
}

func TestSymbols(Te *testing.T) {
	cases := map[string]string{"CL": "Cl", "c": "C", "6": "C", "Ar": "Ar"}
	for in, want := range cases {
		if got := normalizeSymbol(in); got != want {
			Te.Errorf("normalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
	if AtomicNumber("O") != 8 || AtomicNumber("Xx") != 0 {
		Te.Error("wrong atomic numbers")
	}
	if s, err := SymbolFromName("HB2"); err != nil || s != "H" {
		Te.Errorf("SymbolFromName(HB2) = %s, %v", s, err)
	}
}
