// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxhash

import "encoding/binary"

// Blake3Size is the size of a BLAKE3 digest in bytes.
const Blake3Size = 32

// Blake3MaxInput is the largest input the single-chunk hasher accepts.  The
// script dialect caps hashable elements at one chunk, so the multi-chunk tree
// mode is never needed.
const Blake3MaxInput = 1024

const (
	blake3BlockLen = 64

	// Compression flag bits.
	blake3ChunkStart = 1
	blake3ChunkEnd   = 2
	blake3Root       = 8
)

// blake3IV is the BLAKE3 initialization vector (identical to the SHA-256 IV).
var blake3IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// blake3MsgSchedule holds the message word permutation applied before each of
// the 7 rounds.
var blake3MsgSchedule = [7][16]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8},
	{3, 4, 10, 12, 13, 2, 7, 14, 6, 5, 9, 0, 11, 15, 8, 1},
	{10, 7, 12, 9, 14, 3, 13, 15, 4, 0, 11, 2, 5, 8, 1, 6},
	{12, 13, 9, 11, 15, 10, 14, 8, 7, 2, 5, 3, 0, 1, 6, 4},
	{9, 14, 11, 5, 8, 12, 15, 1, 13, 3, 0, 10, 2, 6, 4, 7},
	{11, 15, 5, 0, 1, 9, 8, 6, 14, 10, 2, 12, 3, 4, 7, 13},
}

func blake3G(state *[16]uint32, a, b, c, d int, mx, my uint32) {
	state[a] = state[a] + state[b] + mx
	state[d] = rotr32(state[d]^state[a], 16)
	state[c] = state[c] + state[d]
	state[b] = rotr32(state[b]^state[c], 12)
	state[a] = state[a] + state[b] + my
	state[d] = rotr32(state[d]^state[a], 8)
	state[c] = state[c] + state[d]
	state[b] = rotr32(state[b]^state[c], 7)
}

func rotr32(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

func blake3Round(state *[16]uint32, msg *[16]uint32) {
	// Column step.
	blake3G(state, 0, 4, 8, 12, msg[0], msg[1])
	blake3G(state, 1, 5, 9, 13, msg[2], msg[3])
	blake3G(state, 2, 6, 10, 14, msg[4], msg[5])
	blake3G(state, 3, 7, 11, 15, msg[6], msg[7])

	// Diagonal step.
	blake3G(state, 0, 5, 10, 15, msg[8], msg[9])
	blake3G(state, 1, 6, 11, 12, msg[10], msg[11])
	blake3G(state, 2, 7, 8, 13, msg[12], msg[13])
	blake3G(state, 3, 4, 9, 14, msg[14], msg[15])
}

// blake3Compress runs the BLAKE3 compression function over a single 64-byte
// block and returns the full 16-word output state.
func blake3Compress(cv *[8]uint32, block *[blake3BlockLen]byte, blockLen uint8,
	counter uint64, flags uint8) [16]uint32 {

	var msg [16]uint32
	for i := 0; i < 16; i++ {
		msg[i] = binary.LittleEndian.Uint32(block[4*i:])
	}

	state := [16]uint32{
		cv[0], cv[1], cv[2], cv[3],
		cv[4], cv[5], cv[6], cv[7],
		blake3IV[0], blake3IV[1], blake3IV[2], blake3IV[3],
		uint32(counter), uint32(counter >> 32),
		uint32(blockLen), uint32(flags),
	}

	for r := 0; r < 7; r++ {
		var scheduled [16]uint32
		for i := 0; i < 16; i++ {
			scheduled[i] = msg[blake3MsgSchedule[r][i]]
		}
		blake3Round(&state, &scheduled)
	}

	var out [16]uint32
	for i := 0; i < 8; i++ {
		out[i] = state[i] ^ state[i+8]
	}
	for i := 8; i < 16; i++ {
		out[i] = state[i] ^ cv[i-8]
	}
	return out
}

// Blake3State computes a single-chunk BLAKE3 digest incrementally.  The zero
// value is not valid; use NewBlake3.
type Blake3State struct {
	cv       [8]uint32
	block    [blake3BlockLen]byte
	blockLen uint8
	counter  uint64
	flags    uint8
	consumed int
}

// NewBlake3 returns a hasher ready to accept up to Blake3MaxInput bytes.
func NewBlake3() *Blake3State {
	var s Blake3State
	s.Reset()
	return &s
}

// Reset returns the hasher to its initial state.
func (s *Blake3State) Reset() {
	s.cv = blake3IV
	s.block = [blake3BlockLen]byte{}
	s.blockLen = 0
	s.counter = 0
	s.flags = blake3ChunkStart
	s.consumed = 0
}

// Write absorbs data into the hasher.  Writing more than Blake3MaxInput bytes
// in total panics since the single-chunk mode cannot represent it.
func (s *Blake3State) Write(data []byte) *Blake3State {
	if s.consumed+len(data) > Blake3MaxInput {
		panic("rxhash: blake3 input exceeds single-chunk limit")
	}
	for len(data) > 0 {
		if s.blockLen == blake3BlockLen {
			out := blake3Compress(&s.cv, &s.block, blake3BlockLen,
				s.counter, s.flags)
			copy(s.cv[:], out[:8])
			s.blockLen = 0
			s.block = [blake3BlockLen]byte{}

			// Only the first block of the chunk carries CHUNK_START.
			s.flags &^= blake3ChunkStart
		}

		n := copy(s.block[s.blockLen:], data)
		s.blockLen += uint8(n)
		s.consumed += n
		data = data[n:]
	}
	return s
}

// Sum finalizes the hash and returns the 32-byte digest.  The hasher remains
// usable for further writes only after Reset.
func (s *Blake3State) Sum() [Blake3Size]byte {
	out := blake3Compress(&s.cv, &s.block, s.blockLen, s.counter,
		s.flags|blake3ChunkEnd|blake3Root)

	var digest [Blake3Size]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(digest[4*i:], out[i])
	}
	return digest
}

// Blake3 returns the single-chunk BLAKE3 digest of data.  The input must not
// exceed Blake3MaxInput bytes.
func Blake3(data []byte) [Blake3Size]byte {
	return NewBlake3().Write(data).Sum()
}
