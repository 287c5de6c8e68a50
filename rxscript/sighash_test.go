// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/radiantblockchain/rxdeb/wire"
)

// sigHashTestTx returns a deterministic two-input, two-output transaction
// for the signature hash tests.
func sigHashTestTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := 0; i < 2; i++ {
		var hash chainhash.Hash
		for j := range hash {
			hash[j] = byte(i*16 + j)
		}
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: hash, Index: uint32(i)},
			Sequence:         0xfffffffe,
		})
	}
	tx.AddTxOut(&wire.TxOut{Value: 111, PkScript: []byte{OP_1}})
	tx.AddTxOut(&wire.TxOut{Value: 222, PkScript: []byte{OP_2}})
	tx.LockTime = 99
	return tx
}

// TestSignatureHashDeterminism ensures the signature hash is a pure function
// of its inputs and that each committed field changes it.
func TestSignatureHashDeterminism(t *testing.T) {
	t.Parallel()

	tx := sigHashTestTx()
	scriptCode := []byte{OP_DUP, OP_HASH160, OP_EQUALVERIFY, OP_CHECKSIG}

	base, err := CalcSignatureHash(scriptCode, SigHashAll|SigHashForkID,
		tx, 0, 5000)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}
	if len(base) != 32 {
		t.Fatalf("signature hash is %d bytes, want 32", len(base))
	}

	again, err := CalcSignatureHash(scriptCode, SigHashAll|SigHashForkID,
		tx, 0, 5000)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}
	if !bytes.Equal(base, again) {
		t.Fatal("signature hash is not deterministic")
	}

	// The cached sub-hash path must agree with the direct path.
	cached, err := calcSignatureHash(scriptCode, SigHashAll|SigHashForkID,
		tx, 0, 5000, NewTxSigHashes(tx))
	if err != nil {
		t.Fatalf("calcSignatureHash with cache: %v", err)
	}
	if !bytes.Equal(base, cached) {
		t.Fatal("cached sub-hashes changed the signature hash")
	}

	// Each of these variations must change the digest.
	variations := []struct {
		name     string
		hashType SigHashType
		idx      int
		amount   int64
	}{
		{"base hash type", SigHashNone | SigHashForkID, 0, 5000},
		{"single", SigHashSingle | SigHashForkID, 0, 5000},
		{"anyonecanpay", SigHashAll | SigHashForkID | SigHashAnyOneCanPay, 0, 5000},
		{"amount", SigHashAll | SigHashForkID, 0, 5001},
		{"input index", SigHashAll | SigHashForkID, 1, 5000},
	}
	for _, test := range variations {
		got, err := CalcSignatureHash(scriptCode, test.hashType, tx,
			test.idx, test.amount)
		if err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		if bytes.Equal(base, got) {
			t.Errorf("changing %s did not change the signature hash",
				test.name)
		}
	}
}

// TestSigHashSingleOutOfRange ensures SINGLE with no matching output commits
// to the zero hash rather than failing.
func TestSigHashSingleOutOfRange(t *testing.T) {
	t.Parallel()

	tx := sigHashTestTx()
	tx.TxOut = tx.TxOut[:1]

	// Input 1 has no matching output under SINGLE.
	_, err := CalcSignatureHash([]byte{OP_CHECKSIG},
		SigHashSingle|SigHashForkID, tx, 1, 5000)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}
}

// signedCheckSigTx builds a transaction spending a pay-to-pubkey output and
// signs it, returning the script pair and the amount.
func signedCheckSigTx(t *testing.T, hashType SigHashType) (scriptSig,
	scriptPubKey []byte, tx *wire.MsgTx, amount int64) {

	t.Helper()

	privKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	pubKey := privKey.PubKey().SerializeCompressed()

	scriptPubKey = AddDataPush(nil, pubKey)
	scriptPubKey = append(scriptPubKey, OP_CHECKSIG)

	tx = sigHashTestTx()
	amount = 5000

	sigHash, err := CalcSignatureHash(scriptPubKey, hashType, tx, 0, amount)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}

	sig := ecdsa.Sign(privKey, sigHash)
	fullSig := append(sig.Serialize(), byte(hashType))
	scriptSig = AddDataPush(nil, fullSig)
	return scriptSig, scriptPubKey, tx, amount
}

// TestCheckSigEndToEnd signs a pay-to-pubkey spend and verifies it through
// the engine under the standard flags.
func TestCheckSigEndToEnd(t *testing.T) {
	t.Parallel()

	scriptSig, scriptPubKey, tx, amount := signedCheckSigTx(t,
		SigHashAll|SigHashForkID)

	result := VerifyScript(scriptSig, scriptPubKey, tx, 0, amount,
		StandardVerifyFlags, nil, nil, nil)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}

	// Corrupting the amount must invalidate the signature; under
	// NULLFAIL the non-empty signature is then classified.
	result = VerifyScript(scriptSig, scriptPubKey, tx, 0, amount+1,
		StandardVerifyFlags, nil, nil, nil)
	if !IsErrorCode(result.Err, ErrSigNullFail) {
		t.Fatalf("got %v, want ErrSigNullFail", result.Err)
	}
}

// TestCheckSigSigCache ensures a cached validation short-circuits to the
// same verdict.
func TestCheckSigSigCache(t *testing.T) {
	t.Parallel()

	scriptSig, scriptPubKey, tx, amount := signedCheckSigTx(t,
		SigHashAll|SigHashForkID)

	sigCache := NewSigCache(10)
	hashCache := NewHashCache(10)
	for i := 0; i < 2; i++ {
		result := VerifyScript(scriptSig, scriptPubKey, tx, 0, amount,
			StandardVerifyFlags, sigCache, hashCache, nil)
		if !result.Success {
			t.Fatalf("run %d: verification failed: %v", i, result.Err)
		}
	}
}

// TestCheckSigMissingForkID ensures a signature whose hash type lacks the
// FORKID bit is rejected by the real checker regardless of other flags.
func TestCheckSigMissingForkID(t *testing.T) {
	t.Parallel()

	scriptSig, scriptPubKey, tx, amount := signedCheckSigTx(t, SigHashAll)

	// Even with no strict encoding flags the real checker rejects it.
	result := VerifyScript(scriptSig, scriptPubKey, tx, 0, amount,
		testFlags, nil, nil, nil)
	if !IsErrorCode(result.Err, ErrMustUseForkID) {
		t.Fatalf("got %v, want ErrMustUseForkID", result.Err)
	}
}

// TestCheckSigDummyChecker ensures the debugging checker accepts any
// non-empty signature and public key, including ones without FORKID.
func TestCheckSigDummyChecker(t *testing.T) {
	t.Parallel()

	scriptSig := AddDataPush(nil, bytes.Repeat([]byte{0x30}, 10))
	scriptPubKey := AddDataPush(nil, bytes.Repeat([]byte{0x02}, 33))
	scriptPubKey = append(scriptPubKey, OP_CHECKSIG)

	// A nil transaction installs the dummy checker.
	if err := runScripts(t, scriptSig, scriptPubKey); err != nil {
		t.Fatalf("dummy checker rejected the spend: %v", err)
	}
}

// TestCheckMultiSigEndToEnd signs a 1-of-2 multisig spend and verifies it,
// including the null dummy rule.
func TestCheckMultiSigEndToEnd(t *testing.T) {
	t.Parallel()

	priv1, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	priv2, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	scriptPubKey := []byte{OP_1}
	scriptPubKey = AddDataPush(scriptPubKey, priv1.PubKey().SerializeCompressed())
	scriptPubKey = AddDataPush(scriptPubKey, priv2.PubKey().SerializeCompressed())
	scriptPubKey = append(scriptPubKey, OP_2, OP_CHECKMULTISIG)

	tx := sigHashTestTx()
	const amount = int64(9000)

	hashType := SigHashAll | SigHashForkID
	sigHash, err := CalcSignatureHash(scriptPubKey, hashType, tx, 0, amount)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}
	fullSig := append(ecdsa.Sign(priv1, sigHash).Serialize(), byte(hashType))

	scriptSig := []byte{OP_0}
	scriptSig = AddDataPush(scriptSig, fullSig)

	result := VerifyScript(scriptSig, scriptPubKey, tx, 0, amount,
		StandardVerifyFlags, nil, nil, nil)
	if !result.Success {
		t.Fatalf("multisig verification failed: %v", result.Err)
	}

	// A non-empty dummy violates the null dummy rule.
	badSig := []byte{OP_1}
	badSig = AddDataPush(badSig, fullSig)
	result = VerifyScript(badSig, scriptPubKey, tx, 0, amount,
		StandardVerifyFlags, nil, nil, nil)
	if !IsErrorCode(result.Err, ErrSigNullDummy) {
		t.Fatalf("got %v, want ErrSigNullDummy", result.Err)
	}
}

// TestCheckDataSigEndToEnd signs an arbitrary message and verifies it via
// OP_CHECKDATASIG.
func TestCheckDataSigEndToEnd(t *testing.T) {
	t.Parallel()

	privKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	msg := []byte("state transition")
	msgHash := sha256.Sum256(msg)
	sig := ecdsa.Sign(privKey, msgHash[:]).Serialize()

	scriptSig := AddDataPush(nil, sig)
	scriptSig = AddDataPush(scriptSig, msg)

	scriptPubKey := AddDataPush(nil, privKey.PubKey().SerializeCompressed())
	scriptPubKey = append(scriptPubKey, OP_CHECKDATASIG)

	tx := sigHashTestTx()
	result := VerifyScript(scriptSig, scriptPubKey, tx, 0, 0,
		StandardVerifyFlags, nil, nil, nil)
	if !result.Success {
		t.Fatalf("checkdatasig verification failed: %v", result.Err)
	}

	// A different message fails the check and trips NULLFAIL.
	badSig := AddDataPush(nil, sig)
	badSig = AddDataPush(badSig, []byte("other message"))
	result = VerifyScript(badSig, scriptPubKey, tx, 0, 0,
		StandardVerifyFlags, nil, nil, nil)
	if !IsErrorCode(result.Err, ErrSigNullFail) {
		t.Fatalf("got %v, want ErrSigNullFail", result.Err)
	}
}

// TestHashCache covers the add/get/purge cycle.
func TestHashCache(t *testing.T) {
	t.Parallel()

	cache := NewHashCache(10)
	tx := sigHashTestTx()
	txid := tx.TxHash()

	if cache.ContainsHashes(&txid) {
		t.Fatal("cache contains hashes before add")
	}
	cache.AddSigHashes(tx)
	if !cache.ContainsHashes(&txid) {
		t.Fatal("cache missing hashes after add")
	}

	hashes, ok := cache.GetSigHashes(&txid)
	if !ok {
		t.Fatal("GetSigHashes returned no entry")
	}
	want := NewTxSigHashes(tx)
	if *hashes != *want {
		t.Fatal("cached hashes do not match recomputation")
	}

	cache.PurgeSigHashes(&txid)
	if cache.ContainsHashes(&txid) {
		t.Fatal("cache contains hashes after purge")
	}
}

// TestSigCacheEviction ensures the cache holds only up to its limit.
func TestSigCacheEviction(t *testing.T) {
	t.Parallel()

	cache := NewSigCache(2)
	var hashes []chainhash.Hash
	for i := 0; i < 3; i++ {
		var sigHash chainhash.Hash
		sigHash[0] = byte(i + 1)
		hashes = append(hashes, sigHash)
		cache.Add(sigHash, []byte{0x30, byte(i)}, []byte{0x02, byte(i)})
	}

	var present int
	for i, sigHash := range hashes {
		if cache.Exists(sigHash, []byte{0x30, byte(i)}, []byte{0x02, byte(i)}) {
			present++
		}
	}
	if present != 2 {
		t.Fatalf("cache holds %d entries, want 2", present)
	}
}
