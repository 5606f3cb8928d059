package number

import (
	"math"
	"math/big"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
)

type intRange struct {
	min, max *big.Int
}

func signedRange(bits uint) intRange {
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	return intRange{
		min: new(big.Int).Neg(limit),
		max: new(big.Int).Sub(limit, big.NewInt(1)),
	}
}

func unsignedRange(bits uint) intRange {
	return intRange{
		min: big.NewInt(0),
		max: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1)),
	}
}

var intRanges = map[string]intRange{
	"i8":    signedRange(8),
	"i16":   signedRange(16),
	"i32":   signedRange(32),
	"i64":   signedRange(64),
	"isize": signedRange(64),
	"u8":    unsignedRange(8),
	"u16":   unsignedRange(16),
	"u32":   unsignedRange(32),
	"u64":   unsignedRange(64),
	"usize": unsignedRange(64),
}

// IsRangeAnnotation reports whether annotation triggers validation.
func IsRangeAnnotation(annotation string) bool {
	_, ok := intRanges[annotation]
	return ok || annotation == "f32" || annotation == "f64"
}

// CheckRange verifies that n fits the numeric type named by annotation.
// Unrecognized annotations always pass.
func CheckRange(annotation string, n Number) error {
	outOfRange := &kdlerrors.RangeError{Annotation: annotation, Value: n.String()}
	if r, ok := intRanges[annotation]; ok {
		if n.IsFloat {
			return outOfRange
		}
		v := n.Big
		if v == nil {
			v = big.NewInt(n.Int)
		}
		if v.Cmp(r.min) < 0 || v.Cmp(r.max) > 0 {
			return outOfRange
		}
		return nil
	}
	switch annotation {
	case "f32":
		f := n.Float
		if !n.IsFloat {
			f = n.float64()
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return outOfRange
		}
		if !n.IsFloat && math.IsInf(f, 0) {
			return outOfRange
		}
	case "f64":
		if !n.IsFloat && math.IsInf(n.float64(), 0) {
			return outOfRange
		}
	}
	return nil
}

func (n Number) float64() float64 {
	if n.Big != nil {
		f, _ := new(big.Float).SetInt(n.Big).Float64()
		return f
	}
	return float64(n.Int)
}
