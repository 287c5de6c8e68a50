// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// testTx returns a two-input, two-output transaction with distinctive field
// values for serialization tests.
func testTx() *MsgTx {
	hash1 := chainhash.Hash{0x01, 0x02, 0x03}
	hash2 := chainhash.Hash{0xaa, 0xbb, 0xcc}

	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: hash1, Index: 0},
		SignatureScript:  []byte{0x51},
		Sequence:         0xffffffff,
	})
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: hash2, Index: 7},
		SignatureScript:  []byte{0x04, 0xde, 0xad, 0xbe, 0xef},
		Sequence:         0xfffffffe,
	})
	tx.AddTxOut(&TxOut{
		Value:    5000000000,
		PkScript: []byte{0x76, 0xa9, 0x14, 0x00, 0x01, 0x02, 0x03},
	})
	tx.AddTxOut(&TxOut{
		Value:    0,
		PkScript: nil,
	})
	tx.LockTime = 1234
	return tx
}

// TestTxSerializeRoundTrip verifies deserialize(serialize(tx)) == tx for a
// representative transaction.
func TestTxSerializeRoundTrip(t *testing.T) {
	tx := testTx()

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != tx.SerializeSize() {
		t.Fatalf("SerializeSize mismatch: got %d, want %d",
			tx.SerializeSize(), buf.Len())
	}

	var decoded MsgTx
	if err := decoded.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	// An empty script round-trips as an empty non-nil slice.
	if len(decoded.TxOut[1].PkScript) == 0 {
		decoded.TxOut[1].PkScript = nil
	}
	if !reflect.DeepEqual(&decoded, tx) {
		t.Fatalf("round trip mismatch:\ngot:  %s\nwant: %s",
			spew.Sdump(&decoded), spew.Sdump(tx))
	}
}

// TestTxHashStable verifies the transaction hash is a pure function of the
// serialization.
func TestTxHashStable(t *testing.T) {
	tx := testTx()
	first := tx.TxHash()
	second := tx.Copy().TxHash()
	if first != second {
		t.Fatalf("tx hash not stable: %v != %v", first, second)
	}

	tx.LockTime++
	if tx.TxHash() == first {
		t.Fatal("tx hash unchanged after mutating locktime")
	}
}

// TestVarIntRoundTrip tests the boundary values of the variable length
// integer encoding.
func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		val  uint64
		size int
	}{
		{0, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
		{0xffffffffffffffff, 9},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, test.val); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", test.val, err)
		}
		if buf.Len() != test.size {
			t.Errorf("WriteVarInt(%d): wrote %d bytes, want %d",
				test.val, buf.Len(), test.size)
		}
		if got := VarIntSerializeSize(test.val); got != test.size {
			t.Errorf("VarIntSerializeSize(%d) = %d, want %d",
				test.val, got, test.size)
		}

		val, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", test.val, err)
		}
		if val != test.val {
			t.Errorf("ReadVarInt: got %d, want %d", val, test.val)
		}
	}
}

// TestVarIntNonCanonical ensures padded encodings are rejected.
func TestVarIntNonCanonical(t *testing.T) {
	tests := [][]byte{
		{0xfd, 0x01, 0x00},                                     // 1 as 3 bytes
		{0xfe, 0xff, 0xff, 0x00, 0x00},                         // 65535 as 5 bytes
		{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, // 2^32-1 as 9 bytes
	}

	for i, encoded := range tests {
		_, err := ReadVarInt(bytes.NewReader(encoded))
		if err != ErrVarIntNonCanonical {
			t.Errorf("test %d: got err %v, want %v", i, err,
				ErrVarIntNonCanonical)
		}
	}
}

// TestTxDeserializeTruncated ensures truncated serializations error rather
// than panic.
func TestTxDeserializeTruncated(t *testing.T) {
	full := testTx().SerializeBytes()
	for size := 0; size < len(full); size++ {
		var tx MsgTx
		err := tx.Deserialize(bytes.NewReader(full[:size]))
		if err == nil {
			t.Fatalf("no error for truncation at %d bytes", size)
		}
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			// Structural errors are fine too; just must not be nil.
			continue
		}
	}
}

// TestOutPointString checks the human-readable outpoint form.
func TestOutPointString(t *testing.T) {
	var hash chainhash.Hash
	hash[31] = 0x01
	op := NewOutPoint(&hash, 5)

	want := "0100000000000000000000000000000000000000000000000000000000000000:5"
	if got := op.String(); got != want {
		t.Fatalf("OutPoint.String() = %q, want %q", got, want)
	}
}
