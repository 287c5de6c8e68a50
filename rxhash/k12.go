// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxhash

import "encoding/binary"

// K12Size is the size of a KangarooTwelve digest in bytes.
const K12Size = 32

// K12MaxInput is the largest input the single-block hasher accepts.  Beyond
// this size K12 switches to its tree mode, which the script dialect never
// requires.
const K12MaxInput = 8192

// k12Rate is the sponge rate in bytes for the 128-bit security level.
const k12Rate = 168

// k12RoundConstants holds the iota constants for Keccak-p[1600,12], which are
// the final 12 round constants of the 24-round Keccak-f[1600] schedule.
var k12RoundConstants = [12]uint64{
	0x000000008000808b, 0x800000000000008b,
	0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080,
	0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080,
	0x0000000080000001, 0x8000000080008008,
}

// k12RhoPi encodes the combined rho rotation offsets and pi lane trail used
// by keccakP12.  The trail starts at lane 1 and each entry gives the
// destination lane and the rotation applied on the way.
var k12RhoPi = [24]struct {
	lane uint8
	rot  uint8
}{
	{10, 1}, {7, 3}, {11, 6}, {17, 10}, {18, 15}, {3, 21},
	{5, 28}, {16, 36}, {8, 45}, {21, 55}, {24, 2}, {4, 14},
	{15, 27}, {23, 41}, {19, 56}, {13, 8}, {12, 25}, {2, 43},
	{20, 62}, {14, 18}, {22, 39}, {9, 61}, {6, 20}, {1, 44},
}

func rotl64(x uint64, n uint8) uint64 {
	return (x << n) | (x >> (64 - n))
}

// keccakP12 applies the 12-round Keccak permutation to the state in place.
func keccakP12(st *[25]uint64) {
	for round := 0; round < 12; round++ {
		// Theta.
		var bc [5]uint64
		for x := 0; x < 5; x++ {
			bc[x] = st[x] ^ st[x+5] ^ st[x+10] ^ st[x+15] ^ st[x+20]
		}
		for x := 0; x < 5; x++ {
			t := bc[(x+4)%5] ^ rotl64(bc[(x+1)%5], 1)
			for y := 0; y < 25; y += 5 {
				st[x+y] ^= t
			}
		}

		// Rho and pi.
		t := st[1]
		for _, step := range k12RhoPi {
			t, st[step.lane] = st[step.lane], rotl64(t, step.rot)
		}

		// Chi.
		for y := 0; y < 25; y += 5 {
			copy(bc[:], st[y:y+5])
			for x := 0; x < 5; x++ {
				st[y+x] = bc[x] ^ (^bc[(x+1)%5] & bc[(x+2)%5])
			}
		}

		// Iota.
		st[0] ^= k12RoundConstants[round]
	}
}

// K12State computes a single-block KangarooTwelve digest with an empty
// customization string.  The zero value is not valid; use NewK12.
type K12State struct {
	state    [25]uint64
	buffer   [k12Rate]byte
	bufPos   int
	consumed int
}

// NewK12 returns a hasher ready to accept up to K12MaxInput bytes.
func NewK12() *K12State {
	var s K12State
	return &s
}

// Reset returns the hasher to its initial state.
func (s *K12State) Reset() {
	*s = K12State{}
}

// Write absorbs data into the sponge.  Writing more than K12MaxInput bytes in
// total panics since the single-block mode cannot represent it.
func (s *K12State) Write(data []byte) *K12State {
	if s.consumed+len(data) > K12MaxInput {
		panic("rxhash: k12 input exceeds single-block limit")
	}
	s.consumed += len(data)
	s.absorb(data)
	return s
}

func (s *K12State) absorb(data []byte) {
	for len(data) > 0 {
		n := copy(s.buffer[s.bufPos:], data)
		s.bufPos += n
		data = data[n:]

		if s.bufPos == k12Rate {
			for i := 0; i < k12Rate/8; i++ {
				s.state[i] ^= binary.LittleEndian.Uint64(s.buffer[8*i:])
			}
			keccakP12(&s.state)
			s.bufPos = 0
			s.buffer = [k12Rate]byte{}
		}
	}
}

// Sum finalizes the sponge and returns the 32-byte digest.  Finalization
// appends the length encoding of the empty customization string (a single
// 0x00 byte), the K12 domain separator 0x07, and the trailing pad bit.
func (s *K12State) Sum() [K12Size]byte {
	s.absorb([]byte{0x00})

	s.buffer[s.bufPos] = 0x07
	s.buffer[k12Rate-1] |= 0x80
	for i := 0; i < k12Rate/8; i++ {
		s.state[i] ^= binary.LittleEndian.Uint64(s.buffer[8*i:])
	}
	keccakP12(&s.state)

	var digest [K12Size]byte
	for i := 0; i < K12Size/8; i++ {
		binary.LittleEndian.PutUint64(digest[8*i:], s.state[i])
	}
	return digest
}

// K12 returns the single-block KangarooTwelve digest of data with an empty
// customization string.  The input must not exceed K12MaxInput bytes.
func K12(data []byte) [K12Size]byte {
	return NewK12().Write(data).Sum()
}
