package types

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPubkeyFromBase58(t *testing.T) {
	const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	p, err := TryPubkeyFromBase58(tokenProgram)
	require.NoError(t, err)
	assert.Equal(t, tokenProgram, p.String())
	assert.Equal(t, common.TokenProgramID, p.PublicKey())
	assert.False(t, p.IsZero())

	_, err = TryPubkeyFromBase58("0OIl")
	assert.Error(t, err, "非法 base58 字符")

	_, err = TryPubkeyFromBase58("abc")
	assert.Error(t, err, "长度不足 32 字节")
}

func TestPubkeyFromBase58_Panics(t *testing.T) {
	assert.Panics(t, func() { PubkeyFromBase58("not-a-key") })
}

func TestTryPublicKeyFromBase58(t *testing.T) {
	pk, err := TryPublicKeyFromBase58("11111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, common.SystemProgramID, pk)
}
