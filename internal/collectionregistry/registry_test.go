// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package collectionregistry_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ordbridge/internal/collectionregistry"
)

func TestLoad(t *testing.T) {
	data := `[
		{"id": "aaa...i0", "meta": {"name": "one"}},
		{"id": "", "meta": {"name": "skipped-empty"}},
		{"id": "bbb...i0", "meta": {"name": "two"}},
		{"id": "aaa...i0", "meta": {"name": "skipped-duplicate"}}
	]`

	reg, err := collectionregistry.Load(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, reg.Size())

	item, ok := reg.ByInscriptionID("aaa...i0")
	require.True(t, ok)
	require.Equal(t, 0, item.TokenID)

	item, ok = reg.ByInscriptionID("bbb...i0")
	require.True(t, ok)
	require.Equal(t, 1, item.TokenID)

	_, ok = reg.ByInscriptionID("ccc...i0")
	require.False(t, ok)

	item, ok = reg.ByTokenID(1)
	require.True(t, ok)
	require.Equal(t, "bbb...i0", item.InscriptionID)

	_, ok = reg.ByTokenID(99)
	require.False(t, ok)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := collectionregistry.Load(strings.NewReader("not json"))
	require.Error(t, err)
}
