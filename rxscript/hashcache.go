// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/wire"
)

// HashCache houses a set of partial sighashes keyed by txid.  The set of
// partial sighashes are those introduced by the BIP143 layout, which allow
// validation to reuse the prevouts/sequence/outputs sub-hashes across every
// input of a transaction.
//
// The HashCache is safe for concurrent access.
type HashCache struct {
	sigHashes map[chainhash.Hash]*TxSigHashes

	sync.RWMutex
}

// NewHashCache returns a new instance of the HashCache.  maxSize is used as
// the initial capacity of the underlying map; it is not enforced, and entries
// are only removed through PurgeSigHashes.
func NewHashCache(maxSize uint) *HashCache {
	return &HashCache{
		sigHashes: make(map[chainhash.Hash]*TxSigHashes, maxSize),
	}
}

// AddSigHashes computes, then adds the partial sighashes for the passed
// transaction.
func (h *HashCache) AddSigHashes(tx *wire.MsgTx) {
	h.Lock()
	defer h.Unlock()

	h.sigHashes[tx.TxHash()] = NewTxSigHashes(tx)
}

// ContainsHashes returns true if the partial sighashes for the passed
// transaction currently exist within the HashCache, and false otherwise.
func (h *HashCache) ContainsHashes(txid *chainhash.Hash) bool {
	h.RLock()
	defer h.RUnlock()

	_, found := h.sigHashes[*txid]
	return found
}

// GetSigHashes possibly returns the previously cached partial sighashes for
// the passed transaction.  This function also returns an additional boolean
// value indicating if the sighashes for the passed transaction were found to
// be present within the HashCache.
func (h *HashCache) GetSigHashes(txid *chainhash.Hash) (*TxSigHashes, bool) {
	h.RLock()
	defer h.RUnlock()

	item, found := h.sigHashes[*txid]
	return item, found
}

// PurgeSigHashes removes all partial sighashes from the HashCache belonging
// to the passed transaction.
func (h *HashCache) PurgeSigHashes(txid *chainhash.Hash) {
	h.Lock()
	defer h.Unlock()

	delete(h.sigHashes, *txid)
}
