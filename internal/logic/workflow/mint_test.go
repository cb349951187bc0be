package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/logic/domain"
)

func u8(v uint8) *uint8 { return &v }

func TestToBaseUnits(t *testing.T) {
	v, err := ToBaseUnits(1.5, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 1_500_000_000, v)

	v, err = ToBaseUnits(1000, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, v)

	// 0.1 + 0.2 这类浮点误差由四舍五入吸收
	v, err = ToBaseUnits(0.3, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 300_000, v)

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = ToBaseUnits(bad, 9)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	_, err = ToBaseUnits(0.0000000001, 9)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = ToBaseUnits(1e11, 9)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMint_CreatesMissingAccount(t *testing.T) {
	h := newHarness()
	mint := types.NewAccount().PublicKey
	wf := NewMintWorkflow(h.deps)

	res, err := wf.Run(context.Background(), MintRequest{Mint: mint, Amount: 1.5, Decimals: u8(9)})
	require.NoError(t, err)

	assert.EqualValues(t, 1_500_000_000, res.AmountBaseUnits)
	assert.True(t, res.CreatedAccount)
	assert.Equal(t, h.deps.Builder.AssociatedAccount(h.creator.PublicKey, mint), res.Account)
	assert.Equal(t, []domain.State{
		domain.StateIdle,
		domain.StateValidating,
		domain.StateCheckingAccount,
		domain.StateBuildingTransaction,
		domain.StateAwaitingWalletSignature,
		domain.StateSubmitted,
	}, wf.Trace())

	tx := h.wallet.seen[0]
	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, common.SPLAssociatedTokenAccountProgramID, programOf(tx, 0))
	assert.Equal(t, common.TokenProgramID, programOf(tx, 1))
	assert.Equal(t, callLog{"ledger.account", "ledger.blockhash", "wallet.sign"}, *h.log)

	require.Len(t, h.sink.events, 1)
	assert.Equal(t, domain.EventTokenMinted, h.sink.events[0].Kind)
	assert.EqualValues(t, 1_500_000_000, h.sink.events[0].Amount)
}

func TestMint_ExistingAccount(t *testing.T) {
	h := newHarness()
	mint := types.NewAccount().PublicKey
	ata := h.deps.Builder.AssociatedAccount(h.creator.PublicKey, mint)
	h.ledger.accounts[ata] = &chain.AccountInfo{Lamports: 2039280, Data: make([]byte, 165)}

	res, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 42, Decimals: u8(0)})
	require.NoError(t, err)
	assert.False(t, res.CreatedAccount)
	assert.EqualValues(t, 42, res.AmountBaseUnits)

	tx := h.wallet.seen[0]
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, common.TokenProgramID, programOf(tx, 0))
}

func TestMint_ResolvesDecimalsFromChain(t *testing.T) {
	h := newHarness()
	mint := types.NewAccount().PublicKey
	data := make([]byte, 82)
	data[44] = 6
	data[45] = 1
	h.ledger.accounts[mint] = &chain.AccountInfo{Lamports: 1461600, Data: data}

	res, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 2.25})
	require.NoError(t, err)
	assert.EqualValues(t, 2_250_000, res.AmountBaseUnits)
}

func TestMint_Failures(t *testing.T) {
	mint := types.NewAccount().PublicKey

	t.Run("wallet not connected", func(t *testing.T) {
		h := newHarness()
		h.wallet.connected = false
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrWalletNotConnected, domain.StateValidating)
	})

	t.Run("zero amount", func(t *testing.T) {
		h := newHarness()
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 0, Decimals: u8(9)})
		requireReason(t, err, domain.ErrValidation, domain.StateValidating)
		assert.Empty(t, *h.log)
	})

	t.Run("zero amount unknown decimals", func(t *testing.T) {
		h := newHarness()
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: -3})
		requireReason(t, err, domain.ErrValidation, domain.StateValidating)
	})

	t.Run("missing mint", func(t *testing.T) {
		h := newHarness()
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrValidation, domain.StateValidating)
	})

	t.Run("unknown mint account", func(t *testing.T) {
		h := newHarness()
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1})
		requireReason(t, err, domain.ErrValidation, domain.StateCheckingAccount)
	})

	t.Run("account lookup fails", func(t *testing.T) {
		h := newHarness()
		h.ledger.accountErr = errors.New("429 too many requests")
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrNetwork, domain.StateCheckingAccount)
		assert.Equal(t, "Network error, please retry", domain.UserMessage(err))
	})

	t.Run("wallet rejects", func(t *testing.T) {
		h := newHarness()
		h.wallet.reject = true
		res, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrWalletRejection, domain.StateAwaitingWalletSignature)
		assert.Equal(t, MintResult{}, res)
		assert.Empty(t, h.sink.events)
	})

	t.Run("wallet submission fails", func(t *testing.T) {
		h := newHarness()
		h.wallet.sendErr = errors.New("WalletSendTransactionError: blockhash not found")
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrWalletRejection, domain.StateAwaitingWalletSignature)
	})

	t.Run("classified wallet error kept", func(t *testing.T) {
		h := newHarness()
		h.wallet.sendErr = fmt.Errorf("%w: sendTransaction: timeout", domain.ErrNetwork)
		_, err := NewMintWorkflow(h.deps).Run(context.Background(), MintRequest{Mint: mint, Amount: 1, Decimals: u8(9)})
		requireReason(t, err, domain.ErrNetwork, domain.StateAwaitingWalletSignature)
	})
}
