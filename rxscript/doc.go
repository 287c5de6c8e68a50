// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rxscript implements the Radiant script language.

The Radiant script language is a UTXO stack machine derived from Bitcoin
Script with the splice and arithmetic opcodes re-enabled, 64-bit numeric
operands, native transaction introspection opcodes, reference tracking
opcodes, a state separator mechanism, and the BLAKE3 and KangarooTwelve hash
primitives.

The package provides both a one-shot verifier (VerifyScript and
VerifyTransaction) and a step-debuggable engine: between any two opcodes a
caller may inspect the stacks, take the program counter, rewind to an
earlier state, or reset and start over.  Execution history is a bounded
snapshot buffer owned by the engine.

# Errors

Errors returned by this package are of type Error and fully qualified by an
ErrorCode from a closed enumeration.  The engine never panics on malformed
scripts; every fault is classified and surfaced from Step or Execute.
*/
package rxscript
