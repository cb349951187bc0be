package workflow

import (
	"context"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/pkg/logger"
)

const launchName = "Launch"

// LaunchRequest 发币，可选在发币交易确认后给钱包铸币
type LaunchRequest struct {
	Creation   CreationRequest
	MintAmount float64 // <=0 不铸币
}

// LaunchResult Minted 仅在铸币成功时非空
type LaunchResult struct {
	Created CreationResult
	Minted  *MintResult
}

// Launch 依次运行 CreationWorkflow 与 MintWorkflow。
// MintTo 的预检模拟要求 mint 账户已上链，因此铸币前先等待发币交易 confirmed。
// 发币成功后的任何失败都会连同 Created 一起返回。
func Launch(ctx context.Context, deps Deps, req LaunchRequest, confirm chain.ConfirmOptions) (LaunchResult, error) {
	created, err := NewCreationWorkflow(deps).Run(ctx, req.Creation)
	if err != nil {
		return LaunchResult{}, err
	}
	out := LaunchResult{Created: created}
	if req.MintAmount <= 0 {
		return out, nil
	}

	logger.Infof("[%s] 等待发币交易确认: mint=%s signature=%s", launchName, created.Mint.ToBase58(), created.Signature)
	if err = chain.WaitForConfirmation(ctx, deps.Ledger, created.Signature, confirm); err != nil {
		return out, err
	}

	decimals := uint8(req.Creation.Draft.Decimals)
	minted, err := NewMintWorkflow(deps).Run(ctx, MintRequest{
		Mint:     created.Mint,
		Amount:   req.MintAmount,
		Decimals: &decimals,
	})
	if err != nil {
		return out, err
	}
	out.Minted = &minted
	return out, nil
}
