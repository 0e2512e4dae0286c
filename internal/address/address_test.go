// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package address_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ordbridge/internal/address"
)

func script(prefix []byte, hash []byte, suffix []byte) []byte {
	var buf bytes.Buffer
	buf.Write(prefix)
	buf.Write(hash)
	buf.Write(suffix)
	return buf.Bytes()
}

func TestFromScript(t *testing.T) {
	hash20 := bytes.Repeat([]byte{0x11}, 20)
	hash32 := bytes.Repeat([]byte{0x22}, 32)

	tests := []struct {
		name   string
		script []byte
		prefix string
	}{
		{"p2tr", script([]byte{0x51, 0x20}, hash32, nil), "bc1p"},
		{"p2wpkh", script([]byte{0x00, 0x14}, hash20, nil), "bc1q"},
		{"p2wsh", script([]byte{0x00, 0x20}, hash32, nil), "bc1q"},
		{"p2pkh", script([]byte{0x76, 0xa9, 0x14}, hash20, []byte{0x88, 0xac}), "1"},
		{"p2sh", script([]byte{0xa9, 0x14}, hash20, []byte{0x87}), "3"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			addr := address.FromScript(test.script, address.Mainnet)
			require.NotEmpty(t, addr)
			require.True(t, strings.HasPrefix(addr, test.prefix), "got %s", addr)
		})
	}
}

func TestFromScript_NetworkPrefixes(t *testing.T) {
	hash20 := bytes.Repeat([]byte{0x11}, 20)
	s := script([]byte{0x00, 0x14}, hash20, nil)

	require.True(t, strings.HasPrefix(address.FromScript(s, address.Mainnet), "bc1"))
	require.True(t, strings.HasPrefix(address.FromScript(s, address.Testnet), "tb1"))
	require.True(t, strings.HasPrefix(address.FromScript(s, address.Regtest), "bcrt1"))
}

func TestFromScript_UnrecognizedReturnsEmpty(t *testing.T) {
	require.Empty(t, address.FromScript([]byte{0x6a, 0x00}, address.Mainnet)) // OP_RETURN
	require.Empty(t, address.FromScript(nil, address.Mainnet))
}
