// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

const (
	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 32000000

	// MaxScriptElementSize is the maximum number of bytes an element on
	// the stack may be.
	MaxScriptElementSize = 32000000

	// MaxStackSize is the maximum combined depth of the data and
	// alternate stacks during execution.
	MaxStackSize = 32000000

	// MaxOpsPerScript is the maximum number of executed non-push
	// operations per script.
	MaxOpsPerScript = 32000000

	// MaxPubKeysPerMultiSig is the maximum number of public keys an
	// OP_CHECKMULTISIG may be given.
	MaxPubKeysPerMultiSig = 20

	// LockTimeThreshold is the number below which a transaction locktime
	// is interpreted as a block height rather than a Unix timestamp.
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC

	// RefSize is the exact size of a reference operand: a 32-byte txid
	// followed by a 4-byte little-endian output index.
	RefSize = 36

	// maxScriptNumLen is the widest stack element that may be interpreted
	// as a script number when 64-bit integers are active.
	maxScriptNumLen = 8

	// legacyScriptNumLen is the widest numeric operand without the 64-bit
	// integer flag.
	legacyScriptNumLen = 4

	// cltvScriptNumLen is the operand width for the locktime and sequence
	// verification opcodes, which accept up to 5-byte numbers so the full
	// uint32 locktime range is representable.
	cltvScriptNumLen = 5
)

// sequence encoding constants for OP_CHECKSEQUENCEVERIFY per the relative
// locktime rules.
const (
	// sequenceLockTimeDisabled is the flag that, if set on a transaction
	// input's sequence, disables relative locktime checks for it.
	sequenceLockTimeDisabled = 1 << 31

	// sequenceLockTimeIsSeconds means the relative locktime is in units
	// of 512 seconds rather than blocks.
	sequenceLockTimeIsSeconds = 1 << 22

	// sequenceLockTimeMask extracts the relative locktime value from a
	// sequence number.
	sequenceLockTimeMask = 0x0000ffff
)
