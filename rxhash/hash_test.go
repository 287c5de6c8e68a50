// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxhash

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestBlake3EmptyVector ensures the empty-input digest matches the published
// BLAKE3 test vector.
func TestBlake3EmptyVector(t *testing.T) {
	want, _ := hex.DecodeString(
		"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	got := Blake3(nil)
	if !bytes.Equal(got[:], want) {
		t.Fatalf("Blake3(\"\") = %x, want %x", got, want)
	}
}

// TestK12EmptyVector ensures the empty-input digest matches the published
// KangarooTwelve test vector for an empty customization string.
func TestK12EmptyVector(t *testing.T) {
	want, _ := hex.DecodeString(
		"1ac2d450fc3b4205d19da7bfca1b37513c0803577ac7167f06fe2ce1f0ef39e5")
	got := K12(nil)
	if !bytes.Equal(got[:], want) {
		t.Fatalf("K12(\"\") = %x, want %x", got, want)
	}
}

// TestBlake3Deterministic ensures digests are pure functions of the input
// across block boundaries and that streaming writes match one-shot hashing.
func TestBlake3Deterministic(t *testing.T) {
	sizes := []int{0, 1, 31, 32, 63, 64, 65, 127, 128, 512, 1023, 1024}
	for _, size := range sizes {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 7)
		}

		first := Blake3(data)
		second := Blake3(data)
		if first != second {
			t.Fatalf("size %d: digest not deterministic", size)
		}

		// Streaming one byte at a time must agree with the one-shot
		// result.
		s := NewBlake3()
		for _, b := range data {
			s.Write([]byte{b})
		}
		if streamed := s.Sum(); streamed != first {
			t.Fatalf("size %d: streamed digest %x != %x", size,
				streamed, first)
		}
	}
}

// TestK12Deterministic ensures digests are pure functions of the input across
// sponge-rate boundaries.
func TestK12Deterministic(t *testing.T) {
	sizes := []int{0, 1, 167, 168, 169, 335, 336, 1000, 8191, 8192}
	for _, size := range sizes {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 13)
		}

		first := K12(data)
		second := K12(data)
		if first != second {
			t.Fatalf("size %d: digest not deterministic", size)
		}

		s := NewK12()
		for _, b := range data {
			s.Write([]byte{b})
		}
		if streamed := s.Sum(); streamed != first {
			t.Fatalf("size %d: streamed digest %x != %x", size,
				streamed, first)
		}
	}
}

// TestHashersDiffer ensures the two hash functions and their inputs are
// actually distinguished by the digests.
func TestHashersDiffer(t *testing.T) {
	msg := []byte("abc")

	b3 := Blake3(msg)
	k12 := K12(msg)
	if b3 == k12 {
		t.Fatal("BLAKE3 and K12 produced identical digests")
	}

	other := Blake3([]byte("abd"))
	if b3 == other {
		t.Fatal("BLAKE3 digests for distinct inputs collide")
	}
}

// TestBlake3InputLimit ensures the single-chunk guard fires.
func TestBlake3InputLimit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oversized blake3 input")
		}
	}()
	Blake3(make([]byte, Blake3MaxInput+1))
}

// TestK12InputLimit ensures the single-block guard fires.
func TestK12InputLimit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oversized k12 input")
		}
	}()
	K12(make([]byte, K12MaxInput+1))
}

// TestSha512_256 sanity-checks the helper against the known empty-input
// vector for SHA-512/256.
func TestSha512_256(t *testing.T) {
	want, _ := hex.DecodeString(
		"c672b8d1ef56ed28ab87c3622c5114069bdd3ad7b8f9737498d0c01ecef0967a")
	got := Sha512_256(nil)
	if !bytes.Equal(got[:], want) {
		t.Fatalf("Sha512_256(\"\") = %x, want %x", got, want)
	}

	double := Hash512_256(nil)
	redone := Sha512_256(want)
	if double != redone {
		t.Fatalf("Hash512_256 is not Sha512_256 applied twice")
	}
}
