package persist

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedFloatMarshalExactDecimals(t *testing.T) {
	cases := []struct {
		value float64
		prec  int
		want  string
	}{
		{1.23456789, 3, "1.235"},
		{1.0, 3, "1.000"},
		{0.5, 2, "0.50"},
		{-3.14159, 4, "-3.1416"},
		{42, 0, "42"},
	}
	for _, tc := range cases {
		data, err := FixedFloat{V: tc.value, Prec: tc.prec}.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))
	}
}

func TestFixedFloatUnmarshalRecoversPrecision(t *testing.T) {
	var f FixedFloat
	require.NoError(t, f.UnmarshalJSON([]byte("1.250")))
	assert.InDelta(t, 1.25, f.V, 1e-12)
	assert.Equal(t, 3, f.Prec)

	require.NoError(t, f.UnmarshalJSON([]byte("42")))
	assert.Equal(t, 0, f.Prec)

	assert.Error(t, f.UnmarshalJSON([]byte("not-a-number")))
}

func TestNewCodecClampsPrecision(t *testing.T) {
	assert.Equal(t, DefaultPrecision, NewCodec(-1).Precision)
	assert.Equal(t, DefaultPrecision, NewCodec(99).Precision)
	assert.Equal(t, 5, NewCodec(5).Precision)
}

func TestCodecEncodeStampsFixedDecimals(t *testing.T) {
	codec := NewCodec(3)
	records := []SavedRecord{
		{Key: "gfx.bloom", Type: "float", FloatValue: FixedFloat{V: 0.123456}},
		{Key: "gfx.vsync", Type: "bool", BoolValue: true},
		{Key: "sim.gravity", Type: "vec2", VecValue: []FixedFloat{{V: 0}, {V: 9.80665}}},
	}

	data, err := codec.Encode(records)
	require.NoError(t, err)

	// Every stored float carries exactly three decimals.
	assert.Contains(t, string(data), "0.123")
	assert.Contains(t, string(data), "9.807")
	assert.Contains(t, string(data), "0.000")
	floats := regexp.MustCompile(`-?\d+\.\d+`).FindAllString(string(data), -1)
	require.NotEmpty(t, floats)
	for _, s := range floats {
		assert.Regexp(t, `^-?\d+\.\d{3}$`, s)
	}
}

func TestCodecRoundTripWithinPrecision(t *testing.T) {
	codec := NewCodec(3)
	original := []SavedRecord{
		{Key: "a", Type: "float", FloatValue: FixedFloat{V: 1.23456789}},
		{Key: "b", Type: "bool", BoolValue: true},
		{Key: "c", Type: "vec3", VecValue: []FixedFloat{{V: 1.5}, {V: -2.25}, {V: 0.0001}}},
	}

	data, err := codec.Encode(original)
	require.NoError(t, err)
	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	// Values match the originals within the configured precision.
	assert.InDelta(t, 1.23456789, decoded[0].FloatValue.V, 0.0005)
	assert.True(t, decoded[1].BoolValue)
	assert.InDelta(t, 1.5, decoded[2].VecValue[0].V, 0.0005)
	assert.InDelta(t, -2.25, decoded[2].VecValue[1].V, 0.0005)
	// Sub-precision values quantize to zero.
	assert.Equal(t, 0.0, decoded[2].VecValue[2].V)
}

func TestCodecDecodeEdgeCases(t *testing.T) {
	codec := NewCodec(3)

	records, err := codec.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = codec.Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = codec.Decode([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = codec.Decode([]byte("{broken"))
	assert.Error(t, err)

	_, err = codec.Decode([]byte(`{"key": "not-an-array"}`))
	assert.Error(t, err)
}
