// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rxhash provides the hash primitives the Radiant script dialect adds
// beyond the Bitcoin-legacy set: single-chunk BLAKE3, single-block
// KangarooTwelve, and SHA-512/256 helpers.
package rxhash

import "crypto/sha512"

// Sha512_256 returns the SHA-512/256 digest of data.
func Sha512_256(data []byte) [32]byte {
	return sha512.Sum512_256(data)
}

// Hash512_256 returns SHA-512/256 applied twice to data.
func Hash512_256(data []byte) [32]byte {
	first := sha512.Sum512_256(data)
	return sha512.Sum512_256(first[:])
}
