package chain

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"

	"token-launchpad-sol/internal/logic/domain"
)

// MintDecimals 读取 mint 账户并解析出 decimals
func MintDecimals(ctx context.Context, ledger Ledger, mint common.PublicKey) (uint8, error) {
	info, err := ledger.GetAccountInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, domain.Validationf("mint %s does not exist", mint.ToBase58())
	}
	return DecodeMintDecimals(info.Data)
}

// DecodeMintDecimals 按 SPL mint 布局（82 字节）解析 decimals
func DecodeMintDecimals(data []byte) (uint8, error) {
	acc, err := token.MintAccountFromData(data)
	if err != nil {
		return 0, domain.Validationf("account is not a token mint: %v", err)
	}
	if !acc.IsInitialized {
		return 0, domain.Validationf("token mint is not initialized")
	}
	return acc.Decimals, nil
}
