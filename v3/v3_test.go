package v3

import (
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 || A.Len() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Errorf("changes in a view should be seen in the parent matrix, got %v", A)
	}
	fmt.Println("View\n", A, "\n", View)
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("expected an error for a slice not divisible by 3")
	}
	if s := Zeros(2).String(); strings.Count(s, "0.00") != 6 {
		Te.Errorf("unexpected string for a zero matrix: %q", s)
	}
}

func TestNotXx3(Te *testing.T) {
	defer func() {
		if r := recover(); r != ErrNotXx3Matrix {
			Te.Errorf("expected a panic with %v, got %v", ErrNotXx3Matrix, r)
		}
	}()
	A := &Matrix{mat.NewDense(2, 2, nil)}
	A.NVecs()
}
