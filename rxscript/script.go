// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"fmt"
	"strings"
)

// StateSeparatorAbsent is the sentinel byte index reported for scripts that
// contain no OP_STATESEPARATOR.
const StateSeparatorAbsent = uint32(0xffffffff)

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// AsSmallInt returns the passed opcode, which must be true according to
// isSmallInt, as an integer.
func AsSmallInt(op byte) int {
	if op == OP_0 {
		return 0
	}
	return int(op - (OP_1 - 1))
}

// isReferenceOpcode returns whether or not the opcode carries a 36-byte
// inline reference operand.
func isReferenceOpcode(op byte) bool {
	switch op {
	case OP_PUSHINPUTREF, OP_REQUIREINPUTREF, OP_DISALLOWPUSHINPUTREF,
		OP_DISALLOWPUSHINPUTREFSIBLING, OP_PUSHINPUTREFSINGLETON:
		return true
	}
	return false
}

// isIntrospectionOpcode returns whether or not the opcode reads transaction
// state from the execution context.
func isIntrospectionOpcode(op byte) bool {
	return op >= OP_INPUTINDEX && op <= OP_OUTPUTBYTECODE
}

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition: every opcode up to and including
// OP_16.  A malformed script is not push only.
func IsPushOnlyScript(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// All opcodes up to OP_16 are data push instructions.
		if tokenizer.Opcode() > OP_16 {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// IsPayToPubKeyHash returns true if the script is in the standard
// pay-to-pubkey-hash (P2PKH) format.
func IsPayToPubKeyHash(script []byte) bool {
	return len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format.
func IsPayToScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// IsUnspendable returns whether the passed public key script is unspendable.
// A script beginning with OP_RETURN can never be satisfied.
func IsUnspendable(pkScript []byte) bool {
	return len(pkScript) > 0 && pkScript[0] == OP_RETURN
}

// StateSeparatorIndex returns the byte offset of the first OP_STATESEPARATOR
// in the script, or StateSeparatorAbsent when none is present.  The scan
// walks opcode boundaries so separator bytes inside push data do not count.
func StateSeparatorIndex(script []byte) uint32 {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if tokenizer.Opcode() == OP_STATESEPARATOR {
			// ByteIndex is past the parsed opcode at this point.
			return uint32(tokenizer.ByteIndex() - 1)
		}
	}
	return StateSeparatorAbsent
}

// StateScript returns the portion of the script before the first state
// separator, or nil when the script has no separator.
func StateScript(script []byte) []byte {
	sep := StateSeparatorIndex(script)
	if sep == StateSeparatorAbsent {
		return nil
	}
	return script[:sep]
}

// CodeScript returns the portion of the script after the first state
// separator, or the whole script when it has no separator.
func CodeScript(script []byte) []byte {
	sep := StateSeparatorIndex(script)
	if sep == StateSeparatorAbsent {
		return script
	}
	return script[sep+1:]
}

// removeOpcodeByData returns the script minus any full push of the passed
// data.  It is used to strip signatures out of the script code prior to
// computing a signature hash.  A malformed tail is preserved untouched so
// the error surfaces during execution instead.
func removeOpcodeByData(script []byte, data []byte) []byte {
	// Avoid work when possible.
	if len(script) == 0 || len(data) == 0 {
		return script
	}

	// Parse through the script looking for a canonical data push that
	// contains the data to remove.
	var result []byte
	var prevOffset int32
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// In practice, the script will basically never actually contain
		// the data since this function is only used during signature
		// verification to remove the signature itself which would require
		// some incredibly non-standard code to create.
		//
		// Thus, as an optimization, avoid allocating a new script unless
		// there is actually a match that needs to be removed.
		op, opData := tokenizer.Opcode(), tokenizer.Data()
		if isCanonicalPush(op, opData) && bytes.Contains(opData, data) {
			if result == nil {
				fullPushLen := tokenizer.ByteIndex() - prevOffset
				result = make([]byte, 0, int32(len(script))-fullPushLen)
				result = append(result, script[0:prevOffset]...)
			}
		} else if result != nil {
			result = append(result, script[prevOffset:tokenizer.ByteIndex()]...)
		}

		prevOffset = tokenizer.ByteIndex()
	}
	if result == nil {
		result = script
	}
	return result
}

// isCanonicalPush returns true if the opcode is either not a push instruction
// or the push instruction contained wherein is matches the canonical form or
// using the smallest instruction to do the job.  False otherwise.
func isCanonicalPush(opcode byte, data []byte) bool {
	dataLen := len(data)
	if opcode > OP_16 {
		return true
	}

	if opcode < OP_PUSHDATA1 && opcode > OP_0 && (dataLen == 1 && data[0] <= 16) {
		return false
	}
	if opcode == OP_PUSHDATA1 && dataLen < int(OP_PUSHDATA1) {
		return false
	}
	if opcode == OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if opcode == OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// checkMinimalDataPush returns whether or not the provided opcode is the
// smallest possible way to represent the given data.  For example, the value
// 15 could be pushed with OP_DATA_1 15 (among other variations); however,
// OP_15 is a single opcode that represents the same value and is only a
// single byte versus two bytes.
func checkMinimalDataPush(op *opcode, data []byte) error {
	dataLen := len(data)
	opcodeVal := op.value
	switch {
	case dataLen == 0 && opcodeVal != OP_0:
		str := fmt.Sprintf("zero length data push is encoded with opcode %s "+
			"instead of OP_0", op.name)
		return scriptError(ErrMinimalData, str)
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if opcodeVal != OP_1+data[0]-1 {
			// Should have used OP_1 .. OP_16
			str := fmt.Sprintf("data push of the value %d encoded with opcode "+
				"%s instead of OP_%d", data[0], op.name, data[0])
			return scriptError(ErrMinimalData, str)
		}
	case dataLen == 1 && data[0] == 0x81:
		if opcodeVal != OP_1NEGATE {
			str := fmt.Sprintf("data push of the value -1 encoded with opcode "+
				"%s instead of OP_1NEGATE", op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 75:
		if int(opcodeVal) != dataLen {
			// Should have used a direct push
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_DATA_%d", dataLen, op.name, dataLen)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 255:
		if opcodeVal != OP_PUSHDATA1 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA1", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 65535:
		if opcodeVal != OP_PUSHDATA2 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA2", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	}
	return nil
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string
// "[error]" appended.  In addition, the reason the script failed to parse is
// returned if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(script)
	if tokenizer.Next() {
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	for tokenizer.Next() {
		disbuf.WriteByte(' ')
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	if tokenizer.Err() != nil {
		if tokenizer.ByteIndex() != 0 {
			disbuf.WriteByte(' ')
		}
		disbuf.WriteString("[error]")
	}
	return disbuf.String(), tokenizer.Err()
}

// AddDataPush appends a canonical push of the passed data to script and
// returns the result.  It is the small script assembly helper used by the
// debugger and tests.
func AddDataPush(script, data []byte) []byte {
	dataLen := len(data)
	switch {
	case dataLen == 0:
		return append(script, OP_0)
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		return append(script, OP_1+data[0]-1)
	case dataLen == 1 && data[0] == 0x81:
		return append(script, OP_1NEGATE)
	case dataLen <= 75:
		script = append(script, byte(dataLen))
	case dataLen <= 0xff:
		script = append(script, OP_PUSHDATA1, byte(dataLen))
	case dataLen <= 0xffff:
		script = append(script, OP_PUSHDATA2, byte(dataLen),
			byte(dataLen>>8))
	default:
		script = append(script, OP_PUSHDATA4, byte(dataLen),
			byte(dataLen>>8), byte(dataLen>>16), byte(dataLen>>24))
	}
	return append(script, data...)
}
