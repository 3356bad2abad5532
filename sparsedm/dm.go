package sparsedm

import "gonum.org/v1/gonum/mat"

// fullDM is the dense part of a sparse density matrix: a real vector over
// the 4^n single-qubit basis configurations. Slot k addresses the k-th
// dense qubit with stride 4^k; basis value 0 is the |0><0| component,
// value 3 the |1><1| component, 1 and 2 the scaled x and y Paulis.
type fullDM struct {
	nQubits int
	data    []float64
}

func newFullDM() *fullDM {
	return &fullDM{data: []float64{1}}
}

func pow4(k int) int { return 1 << (2 * k) }

// diagAxis maps a classical bit value to its diagonal basis index.
func diagAxis(value int) int {
	if value == 0 {
		return 0
	}
	return 3
}

// addQubit appends a new most-significant axis holding a definite classical
// value and returns its slot.
func (d *fullDM) addQubit(value int) int {
	slot := d.nQubits
	axis := diagAxis(value)
	nd := make([]float64, 4*len(d.data))
	copy(nd[axis*len(d.data):], d.data)
	d.data = nd
	d.nQubits++
	return slot
}

// applySingle multiplies the marginal of one slot by a 4×4 PTM.
func (d *fullDM) applySingle(slot int, p *mat.Dense) {
	s := pow4(slot)
	var in, out [4]float64
	for hi := 0; hi < len(d.data)/(4*s); hi++ {
		for lo := 0; lo < s; lo++ {
			off := hi*4*s + lo
			for a := 0; a < 4; a++ {
				in[a] = d.data[off+a*s]
			}
			for a := 0; a < 4; a++ {
				v := 0.0
				for b := 0; b < 4; b++ {
					v += p.At(a, b) * in[b]
				}
				out[a] = v
			}
			for a := 0; a < 4; a++ {
				d.data[off+a*s] = out[a]
			}
		}
	}
}

// applyTwo multiplies the joint marginal of two slots by a 16×16 PTM whose
// row and column indices are 4a+b, with a addressing slotA.
func (d *fullDM) applyTwo(slotA, slotB int, p *mat.Dense) {
	sa, sb := pow4(slotA), pow4(slotB)
	var in, out [16]float64
	for i := range d.data {
		if (i/sa)%4 != 0 || (i/sb)%4 != 0 {
			continue
		}
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				in[4*a+b] = d.data[i+a*sa+b*sb]
			}
		}
		for m := 0; m < 16; m++ {
			v := 0.0
			for n := 0; n < 16; n++ {
				v += p.At(m, n) * in[n]
			}
			out[m] = v
		}
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				d.data[i+a*sa+b*sb] = out[4*a+b]
			}
		}
	}
}

// partialDiag traces out everything but one slot and returns the two
// diagonal weights of its marginal.
func (d *fullDM) partialDiag(slot int) (p0, p1 float64) {
	s := pow4(slot)
	for i, v := range d.data {
		if !onDiagonal(i, d.nQubits, slot) {
			continue
		}
		switch (i / s) % 4 {
		case 0:
			p0 += v
		case 3:
			p1 += v
		}
	}
	return p0, p1
}

// onDiagonal reports whether every axis of index i except skip holds a
// diagonal basis value.
func onDiagonal(i, nQubits, skip int) bool {
	for k := 0; k < nQubits; k++ {
		if k == skip {
			continue
		}
		if a := (i / pow4(k)) % 4; a != 0 && a != 3 {
			return false
		}
	}
	return true
}

// project contracts one slot onto a definite classical value and removes
// its axis. Slots above the removed one shift down by one. The trace is
// not restored.
func (d *fullDM) project(slot, value int) {
	s := pow4(slot)
	axis := diagAxis(value)
	nd := make([]float64, len(d.data)/4)
	for j := range nd {
		nd[j] = d.data[(j/s)*4*s+axis*s+j%s]
	}
	d.data = nd
	d.nQubits--
}

// trace sums the diagonal of the dense part.
func (d *fullDM) trace() float64 {
	t := 0.0
	for i, v := range d.data {
		if onDiagonal(i, d.nQubits, -1) {
			t += v
		}
	}
	return t
}

func (d *fullDM) scale(f float64) {
	for i := range d.data {
		d.data[i] *= f
	}
}

// diag extracts the 2^n computational-basis diagonal, slot 0 being the
// least significant bit of the output index.
func (d *fullDM) diag() []float64 {
	out := make([]float64, 1<<d.nQubits)
	for m := range out {
		idx := 0
		for k := 0; k < d.nQubits; k++ {
			if m&(1<<k) != 0 {
				idx += 3 * pow4(k)
			}
		}
		out[m] = d.data[idx]
	}
	return out
}
