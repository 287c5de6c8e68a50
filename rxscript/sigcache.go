// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// sigCacheEntry represents an entry in the SigCache.  Entries within the
// SigCache are keyed according to the sigHash of the signature.  In the
// scenario of hash collisions, the full signature and public key are
// compared as well.
type sigCacheEntry struct {
	sig    []byte
	pubKey []byte
}

// SigCache implements an ECDSA signature verification cache with a randomized
// entry eviction policy.  Only valid signatures are added to the cache.  The
// benefit of the SigCache is two fold: a debugger stepping backwards and
// forwards over the same CHECKSIG repeats no curve math, and the multi-input
// verifier skips work for signatures shared between runs.
//
// The SigCache is safe for concurrent access.
type SigCache struct {
	sync.RWMutex
	validSigs  map[chainhash.Hash]sigCacheEntry
	maxEntries uint
}

// NewSigCache creates and initializes a new instance of SigCache.  Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment.  Random entries are evicted
// to make room for new entries that would cause the number of entries in the
// cache to exceed the max.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{
		validSigs:  make(map[chainhash.Hash]sigCacheEntry, maxEntries),
		maxEntries: maxEntries,
	}
}

// Exists returns true if an existing entry of 'sig' over 'sigHash' for public
// key 'pubKey' is found within the SigCache.
func (s *SigCache) Exists(sigHash chainhash.Hash, sig, pubKey []byte) bool {
	s.RLock()
	defer s.RUnlock()

	entry, ok := s.validSigs[sigHash]
	return ok && bytes.Equal(entry.pubKey, pubKey) &&
		bytes.Equal(entry.sig, sig)
}

// Add adds an entry for a signature over 'sigHash' under public key 'pubKey'
// to the signature cache.  In the event that the SigCache is full, an
// existing entry is randomly chosen to be evicted in order to make space for
// the new entry.
func (s *SigCache) Add(sigHash chainhash.Hash, sig, pubKey []byte) {
	s.Lock()
	defer s.Unlock()

	if s.maxEntries == 0 {
		return
	}

	// If adding this new entry will put us over the max number of allowed
	// entries, then evict an entry.  Go's range statement iterates in a
	// pseudo-random order, so deleting the first key encountered amounts
	// to a random eviction.
	if uint(len(s.validSigs)+1) > s.maxEntries {
		for sigEntry := range s.validSigs {
			delete(s.validSigs, sigEntry)
			break
		}
	}

	sigCopy := make([]byte, len(sig))
	copy(sigCopy, sig)
	keyCopy := make([]byte, len(pubKey))
	copy(keyCopy, pubKey)
	s.validSigs[sigHash] = sigCacheEntry{sigCopy, keyCopy}
}
