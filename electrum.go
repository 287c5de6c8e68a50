// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/btcsuite/go-socks/socks"

	"github.com/radiantblockchain/rxdeb/wire"
)

// electrumTimeout bounds every remote UTXO request.
const electrumTimeout = 30 * time.Second

// electrumClient is a minimal newline-delimited JSON-RPC client for the
// electrum-style endpoints Radiant nodes expose.  It exists solely so the
// debugger can pull a spending transaction by txid; everything else about
// the protocol is out of scope.
type electrumClient struct {
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

// electrumRequest is the request envelope of the protocol.
type electrumRequest struct {
	ID     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// electrumResponse is the response envelope of the protocol.
type electrumResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// dialElectrum connects to the given endpoint, optionally through a SOCKS5
// proxy.
func dialElectrum(addr, proxyAddr, proxyUser, proxyPass string) (*electrumClient, error) {
	var conn net.Conn
	var err error
	if proxyAddr != "" {
		proxy := &socks.Proxy{
			Addr:     proxyAddr,
			Username: proxyUser,
			Password: proxyPass,
		}
		conn, err = proxy.Dial("tcp", addr)
	} else {
		conn, err = net.DialTimeout("tcp", addr, electrumTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %v", addr, err)
	}

	return &electrumClient{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Close tears the connection down.
func (c *electrumClient) Close() error {
	return c.conn.Close()
}

// call performs one request and decodes the matching response.
func (c *electrumClient) call(method string, params ...interface{}) (json.RawMessage, error) {
	c.nextID++
	req := electrumRequest{
		ID:     c.nextID,
		Method: method,
		Params: params,
	}

	payload, err := json.Marshal(&req)
	if err != nil {
		return nil, err
	}
	payload = append(payload, '\n')

	deadline := time.Now().Add(electrumTimeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(payload); err != nil {
		return nil, err
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}

	var resp electrumResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("malformed response: %v", err)
	}
	if len(resp.Error) > 0 && !bytes.Equal(resp.Error, []byte("null")) {
		return nil, fmt.Errorf("remote error: %s", resp.Error)
	}
	return resp.Result, nil
}

// FetchTransaction retrieves the raw transaction with the given txid and
// deserializes it.
func (c *electrumClient) FetchTransaction(txid string) (*wire.MsgTx, error) {
	result, err := c.call("blockchain.transaction.get", txid)
	if err != nil {
		return nil, err
	}

	var txHex string
	if err := json.Unmarshal(result, &txHex); err != nil {
		return nil, fmt.Errorf("malformed transaction result: %v", err)
	}

	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("malformed transaction hex: %v", err)
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("unable to deserialize transaction: %v",
			err)
	}
	return &tx, nil
}
