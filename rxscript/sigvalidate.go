// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/radiantblockchain/rxdeb/wire"
)

// minSigLen and maxSigLen bound a DER signature including the trailing hash
// type byte.
const (
	minSigLen = 9
	maxSigLen = 73
)

// SignatureChecker abstracts the transaction-dependent portion of the
// signature opcodes so the engine can run either against a real spending
// transaction or as a free-standing debugger.
type SignatureChecker interface {
	// CheckSig verifies sig (with its trailing hash type byte) over the
	// provided script code for the given public key.
	CheckSig(sig, pubKey, scriptCode []byte) (bool, error)

	// CheckDataSig verifies a signature over the single SHA-256 of an
	// arbitrary message.
	CheckDataSig(sig, msg, pubKey []byte) (bool, error)

	// CheckLockTime validates an absolute locktime requirement against
	// the transaction.
	CheckLockTime(lockTime int64) error

	// CheckSequence validates a relative locktime requirement against
	// the transaction.
	CheckSequence(sequence int64) error
}

// TxSignatureChecker validates signatures against a real spending
// transaction using the BIP143-with-FORKID signature hash.
type TxSignatureChecker struct {
	tx       *wire.MsgTx
	inputIdx int
	amount   int64

	sigHashes *TxSigHashes
	sigCache  *SigCache
}

// NewTxSignatureChecker returns a checker bound to the given transaction
// input and the amount of the output it spends.
func NewTxSignatureChecker(tx *wire.MsgTx, inputIdx int, amount int64) *TxSignatureChecker {
	return &TxSignatureChecker{
		tx:       tx,
		inputIdx: inputIdx,
		amount:   amount,
	}
}

// CheckSig verifies an ECDSA transaction signature.  The hash type is the
// final signature byte and must carry FORKID; signatures lacking it are
// rejected unconditionally for this network.
func (c *TxSignatureChecker) CheckSig(sig, pubKey, scriptCode []byte) (bool, error) {
	if len(sig) == 0 {
		return false, nil
	}

	hashType := SigHashType(sig[len(sig)-1])
	if !hasForkID(hashType) {
		str := fmt.Sprintf("signature hash type 0x%02x lacks the "+
			"mandatory fork id", byte(hashType))
		return false, scriptError(ErrMustUseForkID, str)
	}
	derSig := sig[:len(sig)-1]

	sigHash, err := calcSignatureHash(scriptCode, hashType, c.tx,
		c.inputIdx, c.amount, c.sigHashes)
	if err != nil {
		return false, err
	}

	var cacheKey chainhash.Hash
	if c.sigCache != nil {
		copy(cacheKey[:], sigHash)
		if c.sigCache.Exists(cacheKey, derSig, pubKey) {
			return true, nil
		}
	}

	parsedPubKey, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, nil
	}
	parsedSig, err := ecdsa.ParseDERSignature(derSig)
	if err != nil {
		return false, nil
	}

	valid := parsedSig.Verify(sigHash, parsedPubKey)
	if valid && c.sigCache != nil {
		c.sigCache.Add(cacheKey, derSig, pubKey)
	}
	return valid, nil
}

// CheckDataSig verifies an ECDSA signature over the single SHA-256 of msg.
// Data signatures carry no hash type byte.
func (c *TxSignatureChecker) CheckDataSig(sig, msg, pubKey []byte) (bool, error) {
	if len(sig) == 0 {
		return false, nil
	}

	parsedPubKey, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, nil
	}
	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, nil
	}

	msgHash := sha256.Sum256(msg)
	return parsedSig.Verify(msgHash[:], parsedPubKey), nil
}

// CheckLockTime validates an absolute locktime against the transaction per
// the rules of OP_CHECKLOCKTIMEVERIFY: matching locktime kind, transaction
// locktime at or past the requirement, and a non-final input sequence.
func (c *TxSignatureChecker) CheckLockTime(lockTime int64) error {
	txLockTime := int64(c.tx.LockTime)

	// The locktimes must be of the same kind: both block heights or both
	// timestamps.
	if (txLockTime < LockTimeThreshold && lockTime >= LockTimeThreshold) ||
		(txLockTime >= LockTimeThreshold && lockTime < LockTimeThreshold) {

		str := fmt.Sprintf("mismatched locktime types -- tx locktime "+
			"%d, stack locktime %d", txLockTime, lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// A final sequence opts the input out of locktime enforcement, which
	// would let the requirement be bypassed.
	if c.tx.TxIn[c.inputIdx].Sequence == wire.MaxTxInSequenceNum {
		return scriptError(ErrUnsatisfiedLockTime,
			"transaction input is finalized")
	}

	return nil
}

// CheckSequence validates a relative locktime against the transaction per
// BIP68 as used by OP_CHECKSEQUENCEVERIFY.
func (c *TxSignatureChecker) CheckSequence(sequence int64) error {
	// Relative locktimes are only valid from version 2 onwards.
	if c.tx.Version < 2 {
		str := fmt.Sprintf("invalid transaction version: %d",
			c.tx.Version)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	txSequence := int64(c.tx.TxIn[c.inputIdx].Sequence)
	if txSequence&sequenceLockTimeDisabled != 0 {
		str := fmt.Sprintf("transaction sequence has sequence "+
			"locktime disabled bit set: 0x%x", txSequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Mask off non-consensus bits before doing comparisons.
	lockTimeMask := int64(sequenceLockTimeIsSeconds | sequenceLockTimeMask)
	maskedTxSequence := txSequence & lockTimeMask
	maskedSequence := sequence & lockTimeMask

	// The type flag must match: both block based or both time based.
	if maskedTxSequence&sequenceLockTimeIsSeconds !=
		maskedSequence&sequenceLockTimeIsSeconds {

		str := fmt.Sprintf("mismatched sequence types -- tx sequence "+
			"%d, stack sequence %d", maskedTxSequence,
			maskedSequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if maskedSequence&sequenceLockTimeMask >
		maskedTxSequence&sequenceLockTimeMask {

		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", maskedSequence&sequenceLockTimeMask,
			maskedTxSequence&sequenceLockTimeMask)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// DummySignatureChecker is the debugger stand-in for a real transaction
// checker.  Signature checks succeed whenever a signature and public key are
// present, with no FORKID enforcement, and locktime checks always pass.  It
// must never be used for validation of real transactions.
type DummySignatureChecker struct{}

// CheckSig reports success for any non-empty signature and public key.
func (DummySignatureChecker) CheckSig(sig, pubKey, scriptCode []byte) (bool, error) {
	return len(sig) > 0 && len(pubKey) > 0, nil
}

// CheckDataSig reports success for any non-empty signature and public key.
func (DummySignatureChecker) CheckDataSig(sig, msg, pubKey []byte) (bool, error) {
	return len(sig) > 0 && len(pubKey) > 0, nil
}

// CheckLockTime always passes.
func (DummySignatureChecker) CheckLockTime(lockTime int64) error { return nil }

// CheckSequence always passes.
func (DummySignatureChecker) CheckSequence(sequence int64) error { return nil }
