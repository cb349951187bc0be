package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"

	"token-launchpad-sol/internal/logic/domain"
)

// AccountInfo 账户的最小视图
type AccountInfo struct {
	Lamports uint64
	Data     []byte
}

// Ledger 工作流依赖的链上只读能力
type Ledger interface {
	GetRentExemptionLamports(ctx context.Context, size uint64) (uint64, error)
	GetFreshnessToken(ctx context.Context) (string, error)
	// GetAccountInfo 账户不存在时返回 (nil, nil)
	GetAccountInfo(ctx context.Context, addr common.PublicKey) (*AccountInfo, error)
	// GetSignatureStatus 节点尚未见到该交易时返回 (nil, nil)
	GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)
}

// SignatureStatus 交易在链上的执行与确认情况
type SignatureStatus struct {
	Confirmed bool   // 已达到 confirmed 或 finalized
	Err       string // 链上执行失败时的错误描述
}

// RpcLedger 基于 JSON-RPC 的 Ledger 实现，错误统一归为网络错误
type RpcLedger struct {
	c *client.Client
}

func NewRpcLedger(c *client.Client) *RpcLedger {
	return &RpcLedger{c: c}
}

func (l *RpcLedger) GetRentExemptionLamports(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := l.c.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("%w: getMinimumBalanceForRentExemption: %v", domain.ErrNetwork, err)
	}
	return lamports, nil
}

func (l *RpcLedger) GetFreshnessToken(ctx context.Context) (string, error) {
	latest, err := l.c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: getLatestBlockhash: %v", domain.ErrNetwork, err)
	}
	if latest.Blockhash == "" {
		return "", fmt.Errorf("%w: getLatestBlockhash: empty blockhash", domain.ErrNetwork)
	}
	return latest.Blockhash, nil
}

func (l *RpcLedger) GetAccountInfo(ctx context.Context, addr common.PublicKey) (*AccountInfo, error) {
	info, err := l.c.GetAccountInfo(ctx, addr.ToBase58())
	if err != nil {
		if isAccountNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: getAccountInfo %s: %v", domain.ErrNetwork, addr.ToBase58(), err)
	}
	// 不存在的账户 value 为 null，SDK 返回零值
	if info.Lamports == 0 && len(info.Data) == 0 {
		return nil, nil
	}
	return &AccountInfo{Lamports: info.Lamports, Data: info.Data}, nil
}

func (l *RpcLedger) GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	st, err := l.c.GetSignatureStatus(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: getSignatureStatuses %s: %v", domain.ErrNetwork, signature, err)
	}
	if st == nil {
		return nil, nil
	}
	out := &SignatureStatus{}
	if st.Err != nil {
		out.Err = fmt.Sprint(st.Err)
	}
	if st.ConfirmationStatus != nil {
		switch *st.ConfirmationStatus {
		case rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
			out.Confirmed = true
		}
	}
	return out, nil
}

func isAccountNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account does not exist")
}
