// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Radiant transaction wire format.  It follows
// the original Bitcoin serialization with no segregated witness: little
// endian integers, varint-prefixed scripts, and 36-byte outpoints stored
// txid-first.
package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// TxVersion is the current transaction version.
	TxVersion = 2

	// MaxTxInSequenceNum is the maximum sequence number a transaction
	// input can be.  An input with this sequence disables locktime
	// semantics.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.
	MaxPrevOutIndex uint32 = 0xffffffff

	// maxTxInOutPerTx is a sanity bound on the claimed input and output
	// counts during deserialization so malformed data cannot force huge
	// allocations.
	maxTxInOutPerTx = 1 << 20

	// maxScriptAllocSize bounds script lengths read off the wire.  It
	// matches the interpreter's script size limit.
	maxScriptAllocSize = 32000000

	// defaultTxInOutAlloc is the default backing array size for inputs
	// and outputs of a newly created transaction.
	defaultTxInOutAlloc = 8
)

// OutPoint defines a Radiant data type that is used to track previous
// transaction outputs.  The hash is stored exactly as it appears on the
// wire, with no byte reversal.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// TxIn defines a Radiant transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new Radiant transaction input with the provided previous
// outpoint and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint hash 32 bytes + outpoint index 4 bytes + sequence 4 bytes
	// + serialized varint size for the script + the script itself.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// TxOut defines a Radiant transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new Radiant transaction output with the provided value
// and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// MsgTx implements a Radiant transaction.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new transaction with the provided version and no inputs
// or outputs.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the hash for the transaction: the double SHA-256 of the
// serialized transaction, stored as it would be referenced by an outpoint.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(msg.SerializeBytes())
}

// Copy creates a deep copy of the transaction so the original and its inputs
// and outputs may be modified independently.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newScript := make([]byte, len(oldTxIn.SignatureScript))
		copy(newScript, oldTxIn.SignatureScript)

		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			SignatureScript:  newScript,
			Sequence:         oldTxIn.Sequence,
		})
	}

	for _, oldTxOut := range msg.TxOut {
		newScript := make([]byte, len(oldTxOut.PkScript))
		copy(newScript, oldTxOut.PkScript)

		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value:    oldTxOut.Value,
			PkScript: newScript,
		})
	}

	return &newTx
}

// Deserialize decodes a transaction from r into the receiver.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxInOutPerTx {
		return fmt.Errorf("too many transaction inputs [count %d, "+
			"max %d]", count, maxTxInOutPerTx)
	}

	msg.TxIn = make([]*TxIn, count)
	for i := uint64(0); i < count; i++ {
		ti := TxIn{}
		if err := readTxIn(r, &ti); err != nil {
			return err
		}
		msg.TxIn[i] = &ti
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxInOutPerTx {
		return fmt.Errorf("too many transaction outputs [count %d, "+
			"max %d]", count, maxTxInOutPerTx)
	}

	msg.TxOut = make([]*TxOut, count)
	for i := uint64(0); i < count; i++ {
		to := TxOut{}
		if err := readTxOut(r, &to); err != nil {
			return err
		}
		msg.TxOut[i] = &to
	}

	msg.LockTime, err = readUint32(r)
	return err
}

// Serialize encodes the transaction to w in the Radiant wire format.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}

	return writeUint32(w, msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + LockTime 4 bytes + serialized varint size for the
	// number of inputs and outputs.
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}

	return n
}

// SerializeBytes returns the serialized transaction as a byte slice.
func (msg *MsgTx) SerializeBytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))

	// Serialization into a bytes.Buffer cannot fail.
	_ = msg.Serialize(buf)
	return buf.Bytes()
}

// readOutPoint reads the next sequence of bytes from r as an OutPoint.
func readOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}

	var err error
	op.Index, err = readUint32(r)
	return err
}

// writeOutPoint encodes op to w.
func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}

// readTxIn reads the next sequence of bytes from r as a transaction input.
func readTxIn(r io.Reader, ti *TxIn) error {
	if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
		return err
	}

	var err error
	ti.SignatureScript, err = ReadVarBytes(r, maxScriptAllocSize,
		"transaction input signature script")
	if err != nil {
		return err
	}

	ti.Sequence, err = readUint32(r)
	return err
}

// writeTxIn encodes ti to w.
func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, ti.Sequence)
}

// readTxOut reads the next sequence of bytes from r as a transaction output.
func readTxOut(r io.Reader, to *TxOut) error {
	value, err := readUint64(r)
	if err != nil {
		return err
	}
	to.Value = int64(value)

	to.PkScript, err = ReadVarBytes(r, maxScriptAllocSize,
		"transaction output public key script")
	return err
}

// writeTxOut encodes to to w.
func writeTxOut(w io.Writer, to *TxOut) error {
	if err := writeUint64(w, uint64(to.Value)); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}
