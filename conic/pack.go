package conic

import "math"

// PackedLength returns the number of entries in the packed upper triangle
// of an n×n symmetric matrix: n(n+1)/2.
func PackedLength(n int) int {
	return n * (n + 1) / 2
}

// SideDimension returns the largest n with PackedLength(n) <= length.
// It is the inverse of PackedLength on valid packed lengths.
func SideDimension(length int) int {
	if length <= 0 {
		return 0
	}
	n := int((math.Sqrt(float64(8*length+1)) - 1) / 2)
	// Correct for rounding in the square root on large inputs.
	for PackedLength(n+1) <= length {
		n++
	}
	for n > 0 && PackedLength(n) > length {
		n--
	}
	return n
}

// TriIndex returns the position of entry (r, c) in the packed upper
// triangle. Columns are stored one after another, each from row 0 down to
// the diagonal, so (0,0),(0,1),(1,1),(0,2),... occupy 0,1,2,3,...
// The arguments may be given in either order.
func TriIndex(r, c int) int {
	if r > c {
		r, c = c, r
	}
	return c*(c+1)/2 + r
}

// TriPosition is the inverse of TriIndex: it returns the row and column
// (row <= column) of packed index t.
func TriPosition(t int) (r, c int) {
	c = SideDimension(t)
	return t - PackedLength(c), c
}

// SquareIndex returns the position of entry (r, c) in an n×n column-major
// square layout.
func SquareIndex(r, c, n int) int {
	return r + c*n
}

// triangleToSquare returns, for every packed index of a side×side matrix,
// the square index of its upper-triangular slot.
func triangleToSquare(side int) []int {
	idx := make([]int, 0, PackedLength(side))
	for c := 0; c < side; c++ {
		for r := 0; r <= c; r++ {
			idx = append(idx, SquareIndex(r, c, side))
		}
	}
	return idx
}

// SquareToPacked reads the upper triangle of the column-major n×n vector x
// into packed order. Entries below the diagonal are ignored.
func SquareToPacked(x []float64, n int) []float64 {
	if len(x) != n*n {
		panic("conic: SquareToPacked: vector length is not n²")
	}
	out := make([]float64, 0, PackedLength(n))
	for c := 0; c < n; c++ {
		for r := 0; r <= c; r++ {
			out = append(out, x[SquareIndex(r, c, n)])
		}
	}
	return out
}

// PackedToSquare expands a packed upper triangle into a symmetric n×n
// column-major vector.
func PackedToSquare(v []float64, n int) []float64 {
	if len(v) != PackedLength(n) {
		panic("conic: PackedToSquare: vector length is not n(n+1)/2")
	}
	out := make([]float64, n*n)
	t := 0
	for c := 0; c < n; c++ {
		for r := 0; r <= c; r++ {
			out[SquareIndex(r, c, n)] = v[t]
			out[SquareIndex(c, r, n)] = v[t]
			t++
		}
	}
	return out
}

// Off-diagonal factors between a packed row and its single upper square
// slot. The solver works with the symmetric part (Z+Zᵀ)/2 of a square
// block, so a value placed only above the diagonal counts half.
const (
	loadOffDiagonal   = 2.0
	unloadOffDiagonal = 0.5
)

// ScaleTriangle returns the packed vector v of a side×side matrix in the
// form it is loaded into the solver: diagonal entries are multiplied by ±1
// and off-diagonal entries by ±2, negative when minus is set.
func ScaleTriangle(v []float64, side int, minus bool) []float64 {
	return scaleTriangle(v, side, sign(minus), loadOffDiagonal)
}

// UnscaleTriangle inverts ScaleTriangle: diagonal entries are multiplied
// by ±1 and off-diagonal entries by ±0.5.
func UnscaleTriangle(v []float64, side int, minus bool) []float64 {
	return scaleTriangle(v, side, sign(minus), unloadOffDiagonal)
}

func scaleTriangle(v []float64, side int, s, offDiagonal float64) []float64 {
	if len(v) != PackedLength(side) {
		panic("conic: packed vector length does not match side dimension")
	}
	out := make([]float64, len(v))
	t := 0
	for c := 0; c < side; c++ {
		for r := 0; r <= c; r++ {
			if r == c {
				out[t] = s * v[t]
			} else {
				out[t] = s * offDiagonal * v[t]
			}
			t++
		}
	}
	return out
}

func sign(minus bool) float64 {
	if minus {
		return -1
	}
	return 1
}
