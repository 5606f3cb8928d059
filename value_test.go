package kdl

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	s, ok := String("x").AsString()
	require.True(t, ok)
	require.Equal(t, "x", s)
	_, ok = String("x").AsInt()
	require.False(t, ok)

	i, ok := Int(7).AsInt()
	require.True(t, ok)
	require.Equal(t, int64(7), i)
	_, ok = Int(7).AsFloat()
	require.False(t, ok)

	f, ok := Float(1.5).AsFloat()
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	require.True(t, b)

	require.True(t, Null().IsNull())
	require.True(t, Value{}.IsNull())
	require.Equal(t, KindNull, Value{}.Kind())
	require.Nil(t, Null().Any())
	require.Equal(t, "integer", KindInteger.String())
	require.Equal(t, "unknown", Kind(42).String())
}

func TestBigInt(t *testing.T) {
	small := BigInt(big.NewInt(12))
	i, ok := small.AsInt()
	require.True(t, ok, "small big ints are stored as int64")
	require.Equal(t, int64(12), i)
	require.True(t, small.Equal(Int(12)))

	src, _ := new(big.Int).SetString("1180591620717411303424", 10)
	v := BigInt(src)
	src.SetInt64(0)

	got, ok := v.AsBigInt()
	require.True(t, ok)
	require.Equal(t, "1180591620717411303424", got.String())
	got.SetInt64(1)
	again, _ := v.AsBigInt()
	require.Equal(t, "1180591620717411303424", again.String(), "AsBigInt returns a copy")
	require.IsType(t, &big.Int{}, v.Any())
}

func TestValueEqual(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"int vs float", Int(1), Float(1), false},
		{"annotation differs", Int(1).WithType("u8"), Int(1), false},
		{"same annotation", Int(1).WithType("u8"), Int(1).WithType("u8"), true},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"signed zero", Float(0), Float(math.Copysign(0, -1)), false},
		{"nulls", Null(), Null(), true},
		{"bools", Bool(true), Bool(false), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.equal, tc.a.Equal(tc.b))
		})
	}
}

func TestApplyTypeAnnotation(t *testing.T) {
	testCases := []struct {
		name       string
		v          Value
		annotation string
		ok         bool
	}{
		{"i8 min", Int(-128), "i8", true},
		{"i8 overflow", Int(200), "i8", false},
		{"u8 negative", Int(-1), "u8", false},
		{"u64 max", BigInt(new(big.Int).SetUint64(math.MaxUint64)), "u64", true},
		{"i64 overflow", BigInt(new(big.Int).SetUint64(math.MaxUint64)), "i64", false},
		{"float in int", Float(1.5), "i32", false},
		{"f32 overflow", Float(1e300), "f32", false},
		{"f64", Float(1e300), "f64", true},
		{"string with numeric annotation", String("x"), "u8", true},
		{"custom", Int(1000), "uuid", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ApplyTypeAnnotation(tc.v, tc.annotation)
			if !tc.ok {
				var rerr *RangeError
				require.ErrorAs(t, err, &rerr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.annotation, v.Type())
		})
	}
}
