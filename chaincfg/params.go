// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the Radiant network parameters the debugger needs
// to select address prefixes, peer-to-peer magic, and default remote UTXO
// endpoints.  None of these affect script evaluation itself.
package chaincfg

import (
	"errors"
	"fmt"
)

// RadiantNet represents which Radiant network a configuration refers to.
type RadiantNet uint32

// Constants used to indicate the Radiant network.
const (
	// MainNet represents the main Radiant network.
	MainNet RadiantNet = 0x52414431

	// TestNet represents the Radiant test network.
	TestNet RadiantNet = 0x52414454

	// RegressionNet represents the regression test network.
	RegressionNet RadiantNet = 0x52414452
)

// ErrUnknownNetwork describes an error where a network name cannot be mapped
// to known parameters.
var ErrUnknownNetwork = errors.New("unknown network")

// Params defines a Radiant network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net RadiantNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DefaultElectrumServer defines the default remote UTXO endpoint for
	// the network, in host:port form.
	DefaultElectrumServer string

	// Address encoding magics.
	PubKeyHashAddrID byte
	ScriptHashAddrID byte
	PrivateKeyID     byte
}

// MainNetParams defines the network parameters for the main Radiant network.
var MainNetParams = Params{
	Name:                  "mainnet",
	Net:                   MainNet,
	DefaultPort:           "7332",
	DefaultElectrumServer: "electrumx.radiantblockchain.org:50010",
	PubKeyHashAddrID:      0x00,
	ScriptHashAddrID:      0x05,
	PrivateKeyID:          0x80,
}

// TestNetParams defines the network parameters for the Radiant test network.
var TestNetParams = Params{
	Name:                  "testnet",
	Net:                   TestNet,
	DefaultPort:           "17332",
	DefaultElectrumServer: "electrumx-testnet.radiantblockchain.org:50010",
	PubKeyHashAddrID:      0x6f,
	ScriptHashAddrID:      0xc4,
	PrivateKeyID:          0xef,
}

// RegressionNetParams defines the network parameters for the regression test
// network.  There is no default remote endpoint; regtest nodes are local.
var RegressionNetParams = Params{
	Name:             "regtest",
	Net:              RegressionNet,
	DefaultPort:      "17443",
	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,
}

// ParamsForName returns the network parameters for the given network name.
func ParamsForName(name string) (*Params, error) {
	switch name {
	case "mainnet", "":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	case "regtest", "simnet":
		return &RegressionNetParams, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
}
