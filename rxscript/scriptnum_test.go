// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"math"
	"testing"
)

// hexToBytes is a testing convenience for literal byte slices.
func hexToBytes(b ...byte) []byte {
	return b
}

// TestScriptNumBytes ensures that converting from integral script numbers to
// byte representations works as expected.
func TestScriptNumBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num        scriptNum
		serialized []byte
	}{
		{0, nil},
		{1, hexToBytes(0x01)},
		{-1, hexToBytes(0x81)},
		{127, hexToBytes(0x7f)},
		{-127, hexToBytes(0xff)},
		{128, hexToBytes(0x80, 0x00)},
		{-128, hexToBytes(0x80, 0x80)},
		{129, hexToBytes(0x81, 0x00)},
		{-129, hexToBytes(0x81, 0x80)},
		{256, hexToBytes(0x00, 0x01)},
		{-256, hexToBytes(0x00, 0x81)},
		{32767, hexToBytes(0xff, 0x7f)},
		{-32767, hexToBytes(0xff, 0xff)},
		{32768, hexToBytes(0x00, 0x80, 0x00)},
		{-32768, hexToBytes(0x00, 0x80, 0x80)},
		{65535, hexToBytes(0xff, 0xff, 0x00)},
		{-65535, hexToBytes(0xff, 0xff, 0x80)},
		{524288, hexToBytes(0x00, 0x00, 0x08)},
		{-524288, hexToBytes(0x00, 0x00, 0x88)},
		{7340032, hexToBytes(0x00, 0x00, 0x70)},
		{-7340032, hexToBytes(0x00, 0x00, 0xf0)},
		{8388608, hexToBytes(0x00, 0x00, 0x80, 0x00)},
		{-8388608, hexToBytes(0x00, 0x00, 0x80, 0x80)},
		{2147483647, hexToBytes(0xff, 0xff, 0xff, 0x7f)},
		{-2147483647, hexToBytes(0xff, 0xff, 0xff, 0xff)},
		{2147483648, hexToBytes(0x00, 0x00, 0x00, 0x80, 0x00)},
		{-2147483648, hexToBytes(0x00, 0x00, 0x00, 0x80, 0x80)},
		{9223372036854775807, hexToBytes(0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0x7f)},
		{-9223372036854775807, hexToBytes(0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff)},
	}

	for _, test := range tests {
		gotBytes := test.num.Bytes()
		if !bytes.Equal(gotBytes, test.serialized) {
			t.Errorf("Bytes: did not get expected bytes for %d - "+
				"got %x, want %x", test.num, gotBytes,
				test.serialized)
			continue
		}
	}
}

// TestScriptNumRoundTrip ensures decode(encode(n)) == n over a spread of the
// full 64-bit range.
func TestScriptNumRoundTrip(t *testing.T) {
	t.Parallel()

	values := []int64{
		0, 1, -1, 2, -2, 127, -127, 128, -128, 255, -255, 256, -256,
		65535, -65535, 65536, -65536, 1<<24 - 1, -(1<<24 - 1),
		1 << 31, -(1 << 31), 1<<32 + 5, -(1<<32 + 5),
		1<<40 - 3, -(1<<40 - 3), 1<<48 + 17, -(1<<48 + 17),
		math.MaxInt64, -math.MaxInt64,
	}
	for _, v := range values {
		encoded := scriptNum(v).Bytes()
		decoded, err := makeScriptNum(encoded, true, maxScriptNumLen)
		if err != nil {
			t.Errorf("makeScriptNum(%d): unexpected error %v", v, err)
			continue
		}
		if int64(decoded) != v {
			t.Errorf("round trip mismatch: got %d, want %d", decoded, v)
		}
	}
}

// TestMakeScriptNum ensures decoding enforces both the width limit and the
// minimal encoding rules.
func TestMakeScriptNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		serialized []byte
		num        scriptNum
		numLen     int
		minimal    bool
		err        ErrorCode
	}{
		// Minimal encodings round trip.
		{nil, 0, maxScriptNumLen, true, ErrOK},
		{hexToBytes(0x01), 1, maxScriptNumLen, true, ErrOK},
		{hexToBytes(0x81), -1, maxScriptNumLen, true, ErrOK},
		{hexToBytes(0x00, 0x01), 256, maxScriptNumLen, true, ErrOK},

		// Non-minimal encodings fail when requested.
		{hexToBytes(0x01, 0x00), 0, maxScriptNumLen, true, ErrMinimalData},
		{hexToBytes(0x80), 0, maxScriptNumLen, true, ErrMinimalData},
		{hexToBytes(0x00), 0, maxScriptNumLen, true, ErrMinimalData},

		// ... and succeed when minimality is not enforced.
		{hexToBytes(0x01, 0x00), 1, maxScriptNumLen, false, ErrOK},
		{hexToBytes(0x80), 0, maxScriptNumLen, false, ErrOK},

		// Widths beyond the limit are rejected.
		{hexToBytes(0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0x09), 0, maxScriptNumLen, true, ErrInvalidNumberRange},
		{hexToBytes(0x01, 0x02, 0x03, 0x04, 0x05), 0, legacyScriptNumLen,
			true, ErrInvalidNumberRange},
	}

	for i, test := range tests {
		num, err := makeScriptNum(test.serialized, test.minimal,
			test.numLen)
		if test.err != ErrOK {
			if !IsErrorCode(err, test.err) {
				t.Errorf("test %d: got err %v, want code %v", i,
					err, test.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
			continue
		}
		if num != test.num {
			t.Errorf("test %d: got %d, want %d", i, num, test.num)
		}
	}
}

// TestBoolCoercion checks the boolean interpretation rules including the
// negative zero encoding.
func TestBoolCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data []byte
		want bool
	}{
		{nil, false},
		{hexToBytes(0x00), false},
		{hexToBytes(0x00, 0x00), false},
		{hexToBytes(0x80), false},
		{hexToBytes(0x00, 0x80), false},
		{hexToBytes(0x01), true},
		{hexToBytes(0x80, 0x00), true},
		{hexToBytes(0x00, 0x01), true},
		{hexToBytes(0xff), true},
	}

	for i, test := range tests {
		if got := asBool(test.data); got != test.want {
			t.Errorf("test %d: asBool(%x) = %v, want %v", i,
				test.data, got, test.want)
		}
	}

	// Coercion is consistent with the numeric codec.
	if asBool(scriptNum(0).Bytes()) {
		t.Error("asBool(encode(0)) = true, want false")
	}
	for _, n := range []int64{1, -1, 5, 127, -300, 1 << 40} {
		if !asBool(scriptNum(n).Bytes()) {
			t.Errorf("asBool(encode(%d)) = false, want true", n)
		}
	}
}
