package workflow

import (
	"context"
	"time"

	"github.com/blocto/solana-go-sdk/common"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/logic/assembler"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/pkg/logger"
)

const mintName = "MintWorkflow"

// MintRequest Decimals 为空时从链上 mint 账户读取
type MintRequest struct {
	Mint     common.PublicKey
	Amount   float64
	Decimals *uint8
}

type MintResult struct {
	Mint            common.PublicKey
	Account         common.PublicKey // 接收方关联 token 账户
	AmountBaseUnits uint64
	CreatedAccount  bool // 本次交易是否创建了关联账户
	Signature       string
}

// MintWorkflow 给钱包自己增发，不涉及上传。
//
// Idle -> Validating -> CheckingAccount -> BuildingTransaction
// -> AwaitingWalletSignature -> Submitted | Failed
type MintWorkflow struct {
	machine
	deps Deps
}

func NewMintWorkflow(deps Deps) *MintWorkflow {
	return &MintWorkflow{machine: newMachine(mintName), deps: deps}
}

func (w *MintWorkflow) Run(ctx context.Context, req MintRequest) (result MintResult, err error) {
	if err = w.start(); err != nil {
		return MintResult{}, err
	}
	defer w.recoverPanic(&err)

	// Validating
	w.enter(domain.StateValidating)
	owner, ok := w.deps.Wallet.PublicKey(ctx)
	if !ok {
		return MintResult{}, w.fail(domain.ErrWalletNotConnected)
	}
	if req.Mint == (common.PublicKey{}) {
		return MintResult{}, w.fail(domain.Validationf("token mint address is required"))
	}
	if req.Decimals != nil {
		if _, err = ToBaseUnits(req.Amount, *req.Decimals); err != nil {
			return MintResult{}, w.fail(err)
		}
	} else if req.Amount <= 0 {
		return MintResult{}, w.fail(domain.Validationf("please enter a valid amount"))
	}

	// CheckingAccount
	w.enter(domain.StateCheckingAccount)
	var decimals uint8
	if req.Decimals != nil {
		decimals = *req.Decimals
	} else {
		decimals, err = chain.MintDecimals(ctx, w.deps.Ledger, req.Mint)
		if err != nil {
			return MintResult{}, w.fail(classify(err, domain.ErrNetwork))
		}
	}
	amount, err := ToBaseUnits(req.Amount, decimals)
	if err != nil {
		return MintResult{}, w.fail(err)
	}
	ata := w.deps.Builder.AssociatedAccount(owner, req.Mint)
	info, err := w.deps.Ledger.GetAccountInfo(ctx, ata)
	if err != nil {
		return MintResult{}, w.fail(classify(err, domain.ErrNetwork))
	}
	exists := info != nil

	// BuildingTransaction
	w.enter(domain.StateBuildingTransaction)
	ixs, err := w.deps.Builder.BuildMintInstructions(req.Mint, owner, amount, exists)
	if err != nil {
		return MintResult{}, w.fail(err)
	}
	blockhash, err := w.deps.Ledger.GetFreshnessToken(ctx)
	if err != nil {
		return MintResult{}, w.fail(classify(err, domain.ErrNetwork))
	}
	tx, err := assembler.Assemble(ixs, owner, blockhash, nil)
	if err != nil {
		return MintResult{}, w.fail(err)
	}

	// AwaitingWalletSignature
	w.enter(domain.StateAwaitingWalletSignature)
	sig, err := w.deps.Wallet.SignAndSend(ctx, tx)
	if err != nil {
		return MintResult{}, w.fail(classify(err, domain.ErrWalletRejection))
	}

	w.enter(domain.StateSubmitted)
	result = MintResult{
		Mint:            req.Mint,
		Account:         ata,
		AmountBaseUnits: amount,
		CreatedAccount:  !exists,
		Signature:       sig,
	}
	logger.Infof("[%s] 铸币交易已提交: mint=%s amount=%d ata=%s created=%v signature=%s",
		mintName, req.Mint.ToBase58(), amount, ata.ToBase58(), !exists, sig)

	publish(ctx, mintName, w.deps.Events, domain.LaunchEvent{
		Kind:      domain.EventTokenMinted,
		Mint:      req.Mint.ToBase58(),
		Owner:     owner.ToBase58(),
		Signature: sig,
		Decimals:  int(decimals),
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	})
	return result, nil
}
