// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x01
	SigHashNone         SigHashType = 0x02
	SigHashSingle       SigHashType = 0x03
	SigHashForkID       SigHashType = 0x40
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which are
	// used to identify which outputs are signed.
	sigHashMask = 0x1f
)

// baseSigHashType returns the base selector of the hash type with the FORKID
// and ANYONECANPAY flags masked out.
func baseSigHashType(hashType SigHashType) SigHashType {
	return hashType & sigHashMask
}

// hasForkID returns whether the hash type carries the mandatory FORKID bit.
func hasForkID(hashType SigHashType) bool {
	return hashType&SigHashForkID == SigHashForkID
}

// TxSigHashes houses the partial set of sighashes introduced by the BIP143
// layout.  The sub-hashes can be reused across all signature checks for all
// inputs of a transaction, reducing the hashing from O(N^2) to O(N).
type TxSigHashes struct {
	HashPrevOuts chainhash.Hash
	HashSequence chainhash.Hash
	HashOutputs  chainhash.Hash
}

// NewTxSigHashes computes and returns the cached sighashes of the given
// transaction.
func NewTxSigHashes(tx *wire.MsgTx) *TxSigHashes {
	return &TxSigHashes{
		HashPrevOuts: calcHashPrevOuts(tx),
		HashSequence: calcHashSequence(tx),
		HashOutputs:  calcHashOutputs(tx),
	}
}

// calcHashPrevOuts calculates a single hash of all the previous outputs
// (txid:index pairs) referenced within the passed transaction.
func calcHashPrevOuts(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		// First write out the 32-byte transaction ID, as stored,
		// followed by the 4-byte little endian output index.
		b.Write(in.PreviousOutPoint.Hash[:])
		var buf [4]byte
		putUint32LE(buf[:], in.PreviousOutPoint.Index)
		b.Write(buf[:])
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashSequence computes an aggregated hash of each of the sequence
// numbers within the inputs of the passed transaction.
func calcHashSequence(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		var buf [4]byte
		putUint32LE(buf[:], in.Sequence)
		b.Write(buf[:])
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashOutputs computes a hash digest of all outputs created by the
// transaction encoded using the wire format.
func calcHashOutputs(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, out := range tx.TxOut {
		writeTxOutPreimage(&b, out)
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// writeTxOutPreimage serializes an output the way the sighash preimage
// commits to it: 8-byte little endian value followed by the varint-prefixed
// script.
func writeTxOutPreimage(b *bytes.Buffer, out *wire.TxOut) {
	var buf [8]byte
	putUint64LE(buf[:], uint64(out.Value))
	b.Write(buf[:])
	// Writes to a bytes.Buffer cannot fail.
	_ = wire.WriteVarBytes(b, out.PkScript)
}

func putUint32LE(buf []byte, val uint32) {
	buf[0] = byte(val)
	buf[1] = byte(val >> 8)
	buf[2] = byte(val >> 16)
	buf[3] = byte(val >> 24)
}

func putUint64LE(buf []byte, val uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(val >> (8 * i))
	}
}

// calcSignatureHash computes the signature hash for the specified input of
// the target transaction observing the desired signature hash type, using
// the BIP143 layout with the mandatory FORKID.  The passed script code must
// already have had signatures removed.
//
// The preimage layout, all little endian:
//
//  1. version (4 bytes)
//  2. hashPrevouts (32 bytes, zero when ANYONECANPAY)
//  3. hashSequence (32 bytes, zero when ANYONECANPAY, SINGLE, or NONE)
//  4. outpoint of the input being signed (36 bytes)
//  5. script code (varint length prefixed)
//  6. amount of the spent output (8 bytes)
//  7. sequence of the input being signed (4 bytes)
//  8. hashOutputs (32 bytes: all outputs for ALL, the matching-index output
//     for SINGLE if present, else zero)
//  9. locktime (4 bytes)
//  10. hash type (4 bytes)
//
// The signature hash is the double SHA-256 of this concatenation.
func calcSignatureHash(scriptCode []byte, hashType SigHashType, tx *wire.MsgTx,
	idx int, amount int64, cachedHashes *TxSigHashes) ([]byte, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of "+
			"range [0, %d)", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidTxInputIndex, str)
	}

	if cachedHashes == nil {
		cachedHashes = NewTxSigHashes(tx)
	}

	base := baseSigHashType(hashType)
	anyoneCanPay := hashType&SigHashAnyOneCanPay != 0

	var preimage bytes.Buffer
	var buf [8]byte

	// 1. Version.
	putUint32LE(buf[:4], uint32(tx.Version))
	preimage.Write(buf[:4])

	// 2. hashPrevouts.
	var zeroHash chainhash.Hash
	if !anyoneCanPay {
		preimage.Write(cachedHashes.HashPrevOuts[:])
	} else {
		preimage.Write(zeroHash[:])
	}

	// 3. hashSequence.
	if !anyoneCanPay && base != SigHashSingle && base != SigHashNone {
		preimage.Write(cachedHashes.HashSequence[:])
	} else {
		preimage.Write(zeroHash[:])
	}

	// 4. The outpoint being spent.
	txIn := tx.TxIn[idx]
	preimage.Write(txIn.PreviousOutPoint.Hash[:])
	putUint32LE(buf[:4], txIn.PreviousOutPoint.Index)
	preimage.Write(buf[:4])

	// 5. Script code.
	_ = wire.WriteVarBytes(&preimage, scriptCode)

	// 6. Amount.
	putUint64LE(buf[:], uint64(amount))
	preimage.Write(buf[:])

	// 7. Sequence.
	putUint32LE(buf[:4], txIn.Sequence)
	preimage.Write(buf[:4])

	// 8. hashOutputs.
	switch {
	case base != SigHashSingle && base != SigHashNone:
		preimage.Write(cachedHashes.HashOutputs[:])
	case base == SigHashSingle && idx < len(tx.TxOut):
		var single bytes.Buffer
		writeTxOutPreimage(&single, tx.TxOut[idx])
		h := chainhash.DoubleHashH(single.Bytes())
		preimage.Write(h[:])
	default:
		preimage.Write(zeroHash[:])
	}

	// 9. Locktime.
	putUint32LE(buf[:4], tx.LockTime)
	preimage.Write(buf[:4])

	// 10. Hash type, with the fork value mixed into the upper bits.  The
	// Radiant fork value is zero.
	putUint32LE(buf[:4], uint32(hashType))
	preimage.Write(buf[:4])

	return chainhash.DoubleHashB(preimage.Bytes()), nil
}

// CalcSignatureHash computes the BIP143-with-FORKID signature hash for the
// given script code, transaction, input index, amount, and hash type.
func CalcSignatureHash(scriptCode []byte, hashType SigHashType, tx *wire.MsgTx,
	idx int, amount int64) ([]byte, error) {

	return calcSignatureHash(scriptCode, hashType, tx, idx, amount, nil)
}
