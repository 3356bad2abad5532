// Package ptm builds the real Pauli-transfer matrices consumed by the
// state backends. All matrices are expressed in the 0xy1 single-qubit
// basis (|0><0|, σx/√2, σy/√2, |1><1|), in which the diagonal of a
// density matrix occupies the first and last components, so that
// measurement and projection stay cheap for the backend.
package ptm

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

const invSqrt2 = 1 / math.Sqrt2

// singleBasis returns the four 0xy1 basis matrices. They are orthonormal
// under the Hilbert-Schmidt inner product.
func singleBasis() [4]*mat.CDense {
	return [4]*mat.CDense{
		mat.NewCDense(2, 2, []complex128{1, 0, 0, 0}),
		mat.NewCDense(2, 2, []complex128{0, complex(invSqrt2, 0), complex(invSqrt2, 0), 0}),
		mat.NewCDense(2, 2, []complex128{0, complex(0, -invSqrt2), complex(0, invSqrt2), 0}),
		mat.NewCDense(2, 2, []complex128{0, 0, 0, 1}),
	}
}

// twoBasis returns the sixteen product-basis matrices B[4a+b] = Ba ⊗ Bb,
// where the first factor acts on the first qubit of a two-qubit PTM.
func twoBasis() [16]*mat.CDense {
	sb := singleBasis()
	var out [16]*mat.CDense
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			out[4*a+b] = kron(sb[a], sb[b])
		}
	}
	return out
}

func kron(a, b *mat.CDense) *mat.CDense {
	out := mat.NewCDense(4, 4, nil)
	for ra := 0; ra < 2; ra++ {
		for ca := 0; ca < 2; ca++ {
			for rb := 0; rb < 2; rb++ {
				for cb := 0; cb < 2; cb++ {
					out.Set(2*ra+rb, 2*ca+cb, a.At(ra, ca)*b.At(rb, cb))
				}
			}
		}
	}
	return out
}

// traceProd returns Re Tr(a·b).
func traceProd(a, b *mat.CDense) float64 {
	r, c := a.Dims()
	var t complex128
	for x := 0; x < r; x++ {
		for y := 0; y < c; y++ {
			t += a.At(x, y) * b.At(y, x)
		}
	}
	return real(t)
}

func krausToPTM(basis []*mat.CDense, ops []*mat.CDense) *mat.Dense {
	n := len(basis)
	out := mat.NewDense(n, n, nil)
	for _, k := range ops {
		kh := k.H()
		for j := 0; j < n; j++ {
			var kb, m mat.CDense
			kb.Mul(k, basis[j])
			m.Mul(&kb, kh)
			for i := 0; i < n; i++ {
				out.Set(i, j, out.At(i, j)+traceProd(basis[i], &m))
			}
		}
	}
	return out
}

// SingleKrausToPTM converts a channel given by 2×2 Kraus operators into
// its 4×4 PTM.
func SingleKrausToPTM(ops ...*mat.CDense) *mat.Dense {
	sb := singleBasis()
	return krausToPTM(sb[:], ops)
}

// TwoKrausToPTM converts a channel given by 4×4 Kraus operators into its
// 16×16 PTM. Kraus row index 2r+s addresses the first qubit with r and
// the second with s, matching the PTM index 4a+b.
func TwoKrausToPTM(ops ...*mat.CDense) *mat.Dense {
	tb := twoBasis()
	return krausToPTM(tb[:], ops)
}

func Hadamard() *mat.Dense {
	u := mat.NewCDense(2, 2, []complex128{
		complex(invSqrt2, 0), complex(invSqrt2, 0),
		complex(invSqrt2, 0), complex(-invSqrt2, 0),
	})
	return SingleKrausToPTM(u)
}

func rotateXUnitary(angle float64) *mat.CDense {
	c := complex(math.Cos(angle/2), 0)
	s := complex(0, -math.Sin(angle/2))
	return mat.NewCDense(2, 2, []complex128{c, s, s, c})
}

func rotateYUnitary(angle float64) *mat.CDense {
	c := math.Cos(angle / 2)
	s := math.Sin(angle / 2)
	return mat.NewCDense(2, 2, []complex128{
		complex(c, 0), complex(-s, 0),
		complex(s, 0), complex(c, 0),
	})
}

func rotateZUnitary(angle float64) *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		cmplx.Exp(complex(0, -angle/2)), 0,
		0, cmplx.Exp(complex(0, angle/2)),
	})
}

func RotateX(angle float64) *mat.Dense {
	return SingleKrausToPTM(rotateXUnitary(angle))
}

func RotateY(angle float64) *mat.Dense {
	return SingleKrausToPTM(rotateYUnitary(angle))
}

func RotateZ(angle float64) *mat.Dense {
	return SingleKrausToPTM(rotateZUnitary(angle))
}

// RotateEuler is the general single-qubit rotation
// Rz(phi)·Ry(theta)·Rz(lamda), so that
// RotateEuler(-theta, -phi, -lamda) is its inverse.
func RotateEuler(theta, lamda, phi float64) *mat.Dense {
	var a, u mat.CDense
	a.Mul(rotateZUnitary(phi), rotateYUnitary(theta))
	u.Mul(&a, rotateZUnitary(lamda))
	return SingleKrausToPTM(&u)
}

// AmpPhDamping is the combined amplitude damping (gamma) and phase
// damping (lambda) channel. Diagonal weights follow
// ρ00' = ρ00 + γ·ρ11, ρ11' = (1-γ)·ρ11; coherences scale by
// √((1-γ)(1-λ)).
func AmpPhDamping(gamma, lambda float64) *mat.Dense {
	coh := math.Sqrt((1 - gamma) * (1 - lambda))
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, gamma,
		0, coh, 0, 0,
		0, 0, coh, 0,
		0, 0, 0, 1 - gamma,
	})
}

// Dephasing scales the x, y and z Bloch components by (1-px), (1-py) and
// (1-pz) respectively. px=py=pz=0 is the identity channel.
func Dephasing(px, py, pz float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1 - pz/2, 0, 0, pz / 2,
		0, 1 - px, 0, 0,
		0, 0, 1 - py, 0,
		pz / 2, 0, 0, 1 - pz/2,
	})
}

// Mul returns a·b, applying b first.
func Mul(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

func CPhase() *mat.Dense {
	return CPhaseRotation(math.Pi)
}

// CPhaseRotation is the two-qubit gate diag(1, 1, 1, e^{i·angle}).
func CPhaseRotation(angle float64) *mat.Dense {
	u := mat.NewCDense(4, 4, nil)
	u.Set(0, 0, 1)
	u.Set(1, 1, 1)
	u.Set(2, 2, 1)
	u.Set(3, 3, cmplx.Exp(complex(0, angle)))
	return TwoKrausToPTM(u)
}
