package mathcheck

import (
	"github.com/LynnColeArt/hipmath"
)

// CheckHalfMinMax checks max and min on half precision operands promoted
// from float literals.
func CheckHalfMinMax(r Reporter, rt Runtime) {
	if !CheckSimple(r, rt, func() hipmath.Float16 {
		return hipmath.MaxHalf(hipmath.FromFloat32(1.0), hipmath.FromFloat32(2.0))
	}, hipmath.FromFloat32(2.0)) {
		return
	}
	CheckSimple(r, rt, func() hipmath.Float16 {
		return hipmath.MinHalf(hipmath.FromFloat32(1.0), hipmath.FromFloat32(2.0))
	}, hipmath.FromFloat32(1.0))
}
