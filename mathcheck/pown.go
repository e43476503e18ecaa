package mathcheck

import (
	"github.com/LynnColeArt/hipmath"
)

// CheckPown checks the integer and general power functions at every
// precision with 2 squared.
func CheckPown(r Reporter, rt Runtime) {
	if !CheckSimple(r, rt, func() float32 { return hipmath.Powif(2.0, 2) }, 4.0) {
		return
	}
	if !CheckSimple(r, rt, func() float64 { return hipmath.Powi(2.0, 2) }, 4.0) {
		return
	}
	if !CheckSimple(r, rt, func() float32 { return hipmath.Powf(2.0, 2) }, 4.0) {
		return
	}
	if !CheckSimple(r, rt, func() float64 { return hipmath.Pow(2.0, 2) }, 4.0) {
		return
	}
	CheckSimple(r, rt, func() hipmath.Float16 {
		return hipmath.PowHalf(hipmath.FromFloat32(2.0), hipmath.FromFloat32(2))
	}, hipmath.FromFloat32(4.0))
}
