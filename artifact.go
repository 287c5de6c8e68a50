// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// SourceMapEntry is one pc-to-source mapping of a compiled contract.
type SourceMapEntry struct {
	File     string `json:"file"`
	Line     uint32 `json:"line"`
	Column   uint32 `json:"column"`
	Function string `json:"function"`
}

// Artifact is a compiled contract artifact: the contract name, its source,
// its bytecode, and a source map keyed by byte offset into the bytecode.
type Artifact struct {
	Name      string                    `json:"name"`
	Source    string                    `json:"source"`
	Bytecode  string                    `json:"bytecode"`
	SourceMap map[string]SourceMapEntry `json:"sourceMap"`

	bytecode []byte
	pcs      []int
	entries  map[int]SourceMapEntry
}

// loadArtifact reads a compiled contract artifact from the given JSON file.
func loadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("malformed artifact %s: %v", path, err)
	}

	artifact.bytecode, err = hex.DecodeString(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("malformed artifact bytecode: %v", err)
	}

	// Index the source map by numeric pc, keeping a sorted key list so
	// lookups can fall back to the nearest earlier entry.
	artifact.entries = make(map[int]SourceMapEntry, len(artifact.SourceMap))
	for key, entry := range artifact.SourceMap {
		pc, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("malformed source map key %q: %v",
				key, err)
		}
		artifact.entries[pc] = entry
		artifact.pcs = append(artifact.pcs, pc)
	}
	sort.Ints(artifact.pcs)

	return &artifact, nil
}

// ScriptBytes returns the decoded contract bytecode.
func (a *Artifact) ScriptBytes() []byte {
	return a.bytecode
}

// SourceLocation returns the source location for the given byte offset, or
// the nearest earlier mapping when the offset has no exact entry.
func (a *Artifact) SourceLocation(pc int) (SourceMapEntry, bool) {
	if entry, ok := a.entries[pc]; ok {
		return entry, true
	}

	// Walk backwards through the sorted offsets for the closest earlier
	// entry.
	idx := sort.SearchInts(a.pcs, pc)
	if idx == 0 {
		return SourceMapEntry{}, false
	}
	return a.entries[a.pcs[idx-1]], true
}
