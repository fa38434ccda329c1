package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errw bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errw)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	t.Run("has global flags", func(t *testing.T) {
		for _, name := range []string{"log-level", "log-format", "ff", "top", "define", "frame", "unit", "energy-unit", "json"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("missing global flag: %s", name)
			}
		}
	})
	t.Run("has subcommands", func(t *testing.T) {
		for _, name := range []string{"energy", "distances", "pairs", "types", "plot"} {
			if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
				t.Errorf("missing subcommand: %s", name)
			}
		}
	})
}

func TestEnergy(t *testing.T) {
	out, err := run(t, "energy", "--ff", "../../testdata/forcefield.toml", "--energy-unit", "kcal/mol", "--traj", "--json", "../../testdata/argon.xyz")
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Unit     string    `json:"unit"`
		Energies []float64 `json:"energies"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if res.Unit != "kcal/mol" || len(res.Energies) != 3 {
		t.Fatalf("unexpected output %+v", res)
	}
	if math.Abs(res.Energies[1]+2*0.238) > 1e-5 {
		t.Errorf("the second frame is at the minimum, got %v", res.Energies[1])
	}
}

func TestEnergyTopology(t *testing.T) {
	var e [2]struct {
		Energies []float64 `json:"energies"`
	}
	for i, src := range [][]string{{"--ff", "../../testdata/forcefield.toml"}, {"--top", "../../testdata/ethanol.top"}} {
		out, err := run(t, append([]string{"energy", "--json", "../../testdata/ethanol.xyz"}, src...)...)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal([]byte(out), &e[i]); err != nil || len(e[i].Energies) != 1 {
			t.Fatalf("bad output %q: %v", out, err)
		}
	}
	a, b := e[0].Energies[0], e[1].Energies[0]
	if math.Abs(a-b) > 1e-6*math.Abs(a) {
		t.Errorf("force field and topology disagree: %g vs %g", a, b)
	}
}

func TestReports(t *testing.T) {
	ff := "--ff=../../testdata/forcefield.toml"
	out, err := run(t, "pairs", ff, "--limit", "3", "../../testdata/ethanol.xyz")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 6 || !strings.HasPrefix(lines[5], "highest overlap") {
		t.Errorf("unexpected pairs output:\n%s", out)
	}
	out, err = run(t, "types", ff, "../../testdata/ethanol.xyz")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "n20") || strings.Count(out, "\n") != 10 {
		t.Errorf("unexpected types output:\n%s", out)
	}
	out, err = run(t, "types", "--top", "../../testdata/ethanol.top", "--gro")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[ atomtypes ]") {
		t.Errorf("unexpected Gromacs output:\n%s", out)
	}
	out, err = run(t, "distances", ff, "../../testdata/ethanol.xyz")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "\n") != 9 {
		t.Errorf("expected a 9x9 matrix:\n%s", out)
	}
	png := filepath.Join(t.TempDir(), "d.png")
	out, err = run(t, "distances", ff, "--bins", "5", "--plot", png, "../../testdata/ethanol.xyz")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "n: 36") {
		t.Errorf("9 atoms have 36 pairs:\n%s", out)
	}
	if _, err := os.Stat(png); err != nil {
		t.Error(err)
	}
}

func TestPlot(t *testing.T) {
	name := filepath.Join(t.TempDir(), "lj.svg")
	if _, err := run(t, "plot", "--ff", "../../testdata/forcefield.toml", "--keys", "n17,n20,ar", name); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(name); err != nil || st.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		args []string
		code int
	}{
		{[]string{"energy"}, ExitInvalidArgs},
		{[]string{"energy", "../../testdata/argon.xyz"}, ExitInvalidArgs},
		{[]string{"energy", "--frame", "x", "a.xyz"}, ExitInvalidArgs},
		{[]string{"energy", "--log-level", "loud", "--ff", "f.toml", "a.xyz"}, ExitInvalidArgs},
		{[]string{"energy", "--unit", "furlong", "--ff", "f.toml", "a.xyz"}, ExitInvalidArgs},
		{[]string{"energy", "--ff", "../../testdata/forcefield.toml", "--frame", "9", "../../testdata/argon.xyz"}, ExitInvalidArgs},
		{[]string{"plot", "--ff", "../../testdata/forcefield.toml", "--keys", "nope", "x.png"}, ExitInvalidArgs},
		{[]string{"frobnicate"}, ExitInvalidArgs},
		{[]string{"energy", "--ff", "../../testdata/forcefield.toml", "nothere.xyz"}, ExitGeneralError},
	}
	for _, c := range cases {
		_, err := run(t, c.args...)
		if err == nil {
			t.Errorf("%v: expected an error", c.args)
			continue
		}
		if got := exitCodeFromError(err); got != c.code {
			t.Errorf("%v: exit code %d, want %d (%v)", c.args, got, c.code, err)
		}
	}
	if exitCodeFromError(errors.New("x")) != ExitGeneralError || exitCodeFromError(nil) != ExitSuccess {
		t.Error("wrong default exit codes")
	}
}
