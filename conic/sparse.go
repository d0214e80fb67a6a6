package conic

import (
	"fmt"
	"sort"
)

// Nonzero is a single (row, column, value) entry of a sparse matrix.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// SparseMatrix is a matrix in compressed sparse column format. The row
// indices of column j are RowIdx[ColPtr[j]:ColPtr[j+1]], in increasing
// order, with the matching values in Values.
type SparseMatrix struct {
	Rows   int
	Cols   int
	ColPtr []int
	RowIdx []int
	Values []float64
}

// NNZ returns the number of stored entries.
func (m *SparseMatrix) NNZ() int { return len(m.Values) }

// At returns entry (i, j), or 0 when it is not stored.
func (m *SparseMatrix) At(i, j int) float64 {
	if j < 0 || j >= m.Cols {
		return 0
	}
	lo, hi := m.ColPtr[j], m.ColPtr[j+1]
	k := lo + sort.SearchInts(m.RowIdx[lo:hi], i)
	if k < hi && m.RowIdx[k] == i {
		return m.Values[k]
	}
	return 0
}

// Triplets returns the stored entries in column-major order.
func (m *SparseMatrix) Triplets() []Nonzero {
	nz := make([]Nonzero, 0, m.NNZ())
	for j := 0; j < m.Cols; j++ {
		for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
			nz = append(nz, Nonzero{Row: m.RowIdx[k], Col: j, Val: m.Values[k]})
		}
	}
	return nz
}

// MulTransVec returns mᵀ·y.
func (m *SparseMatrix) MulTransVec(y []float64) []float64 {
	if len(y) != m.Rows {
		panic(fmt.Sprintf("conic: MulTransVec: vector has %d rows, matrix %d", len(y), m.Rows))
	}
	out := make([]float64, m.Cols)
	for j := 0; j < m.Cols; j++ {
		var s float64
		for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
			s += m.Values[k] * y[m.RowIdx[k]]
		}
		out[j] = s
	}
	return out
}

// nonzerosToCSC assembles a rows×cols matrix from triplets. Entries with
// the same position are summed and entries that sum to exactly zero are
// dropped. nz is sorted in place and must not be used afterwards.
func nonzerosToCSC(rows, cols int, nz []Nonzero) (*SparseMatrix, error) {
	m := &SparseMatrix{Rows: rows, Cols: cols, ColPtr: make([]int, cols+1)}
	if len(nz) == 0 {
		return m, nil
	}

	sort.Slice(nz, func(i, j int) bool {
		if nz[i].Col != nz[j].Col {
			return nz[i].Col < nz[j].Col
		}
		return nz[i].Row < nz[j].Row
	})

	// Merge duplicates in place.
	n := 0
	for _, e := range nz {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("entry (%d,%d) outside %dx%d: %w", e.Row, e.Col, rows, cols, ErrDimensionMismatch)
		}
		if n > 0 && nz[n-1].Row == e.Row && nz[n-1].Col == e.Col {
			nz[n-1].Val += e.Val
			continue
		}
		nz[n] = e
		n++
	}

	m.RowIdx = make([]int, 0, n)
	m.Values = make([]float64, 0, n)
	for _, e := range nz[:n] {
		if e.Val == 0 {
			continue
		}
		m.RowIdx = append(m.RowIdx, e.Row)
		m.Values = append(m.Values, e.Val)
		m.ColPtr[e.Col+1]++
	}
	for j := 0; j < cols; j++ {
		m.ColPtr[j+1] += m.ColPtr[j]
	}
	return m, nil
}

// expandSlice returns slice when it has length n, and a new slice of n
// copies of fillValue when it is empty. Any other length is an error.
func expandSlice(n int, slice []float64, fillValue float64) ([]float64, error) {
	if len(slice) == n {
		return slice, nil
	}
	if len(slice) == 0 {
		result := make([]float64, n)
		for i := range result {
			result[i] = fillValue
		}
		return result, nil
	}
	return nil, fmt.Errorf("length %d, want %d: %w", len(slice), n, ErrDimensionMismatch)
}
