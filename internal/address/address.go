// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package address classifies a Bitcoin output script and renders it as a
// human-readable address for the configured network. Unrecognized scripts
// are not an error — callers get back an empty string.
package address

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Network identifies which chain parameters to encode addresses against.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// Params returns the chaincfg.Params for a Network, defaulting to mainnet
// for an unrecognized value so callers never have to nil-check it.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// FromScript decodes an output script into its address string. Returns ""
// for any script shape other than the five spec.md §4.1 recognizes
// (P2TR, P2WPKH, P2WSH, P2PKH, P2SH).
func FromScript(script []byte, network Network) string {
	params := network.Params()

	var (
		addr btcutil.Address
		err  error
	)

	switch {
	case isP2TR(script):
		addr, err = btcutil.NewAddressTaproot(script[2:34], params)

	case isP2WPKH(script):
		addr, err = btcutil.NewAddressWitnessPubKeyHash(script[2:22], params)

	case isP2WSH(script):
		addr, err = btcutil.NewAddressWitnessScriptHash(script[2:34], params)

	case isP2PKH(script):
		addr, err = btcutil.NewAddressPubKeyHash(script[3:23], params)

	case isP2SH(script):
		addr, err = btcutil.NewAddressScriptHashFromHash(script[2:22], params)

	default:
		return ""
	}

	if err != nil {
		return ""
	}

	return addr.EncodeAddress()
}

// isP2TR matches OP_1 <32 bytes>.
func isP2TR(script []byte) bool {
	return len(script) == 34 && script[0] == 0x51 && script[1] == 0x20
}

// isP2WPKH matches OP_0 <20 bytes>.
func isP2WPKH(script []byte) bool {
	return len(script) == 22 && script[0] == 0x00 && script[1] == 0x14
}

// isP2WSH matches OP_0 <32 bytes>.
func isP2WSH(script []byte) bool {
	return len(script) == 34 && script[0] == 0x00 && script[1] == 0x20
}

// isP2PKH matches OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func isP2PKH(script []byte) bool {
	return len(script) == 25 &&
		script[0] == 0x76 && script[1] == 0xa9 && script[2] == 0x14 &&
		script[23] == 0x88 && script[24] == 0xac
}

// isP2SH matches OP_HASH160 <20 bytes> OP_EQUAL.
func isP2SH(script []byte) bool {
	return len(script) == 23 &&
		script[0] == 0xa9 && script[1] == 0x14 && script[22] == 0x87
}
