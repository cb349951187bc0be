package assembler

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"token-launchpad-sol/internal/logic/domain"
)

// Assemble 按传入顺序组装交易，设置 fee payer 与 recent blockhash。
// requiredSigner 非空时立即用它部分签名（在钱包签名之前完成），其余签名位留空。
// 只组装，不提交。
func Assemble(
	instructions []types.Instruction,
	feePayer common.PublicKey,
	freshnessToken string,
	requiredSigner *types.Account,
) (types.Transaction, error) {
	if len(instructions) == 0 {
		return types.Transaction{}, fmt.Errorf("%w: empty instruction set", domain.ErrTransactionBuild)
	}
	if freshnessToken == "" {
		return types.Transaction{}, fmt.Errorf("%w: missing recent blockhash", domain.ErrTransactionBuild)
	}

	message := types.NewMessage(types.NewMessageParam{
		FeePayer:        feePayer,
		RecentBlockhash: freshnessToken,
		Instructions:    instructions,
	})

	var signers []types.Account
	if requiredSigner != nil {
		signers = append(signers, *requiredSigner)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: message,
		Signers: signers,
	})
	if err != nil {
		return types.Transaction{}, fmt.Errorf("%w: %v", domain.ErrTransactionBuild, err)
	}
	return tx, nil
}

// SignerIndex 返回 pubkey 在交易签名位中的下标
func SignerIndex(tx types.Transaction, pubkey common.PublicKey) (int, bool) {
	n := int(tx.Message.Header.NumRequireSignatures)
	for i := 0; i < n && i < len(tx.Message.Accounts); i++ {
		if tx.Message.Accounts[i] == pubkey {
			return i, true
		}
	}
	return -1, false
}

// IsSignedBy 判断 pubkey 的签名位是否已填充
func IsSignedBy(tx types.Transaction, pubkey common.PublicKey) bool {
	idx, ok := SignerIndex(tx, pubkey)
	if !ok || idx >= len(tx.Signatures) {
		return false
	}
	for _, b := range tx.Signatures[idx] {
		if b != 0 {
			return true
		}
	}
	return false
}

// Sign 用 account 填充其签名位，用于钱包侧补签。
// 签名切片先复制，不修改调用方持有的 tx 副本。
func Sign(tx *types.Transaction, account types.Account) error {
	idx, ok := SignerIndex(*tx, account.PublicKey)
	if !ok {
		return fmt.Errorf("%w: %s is not a required signer", domain.ErrTransactionBuild, account.PublicKey.ToBase58())
	}
	data, err := tx.Message.Serialize()
	if err != nil {
		return fmt.Errorf("%w: serialize message: %v", domain.ErrTransactionBuild, err)
	}
	sigs := make([]types.Signature, len(tx.Signatures), max(len(tx.Signatures), idx+1))
	copy(sigs, tx.Signatures)
	for len(sigs) <= idx {
		sigs = append(sigs, make([]byte, 64))
	}
	sigs[idx] = account.Sign(data)
	tx.Signatures = sigs
	return nil
}
