package address

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"token-launchpad-sol/internal/consts"
)

// DeriveMetadata 计算 Metaplex 元数据 PDA：
// seeds = ["metadata", metadataProgram, mint]，owner = metadataProgram
//
// 纯函数，相同输入必然得到相同地址。输入非法属于编程错误，直接 panic。
func DeriveMetadata(mint, metadataProgram common.PublicKey) common.PublicKey {
	return Derive(mint, metadataProgram, consts.MetadataSeed)
}

// Derive 使用自定义 seed 前缀派生
func Derive(mint, program common.PublicKey, seed string) common.PublicKey {
	pda, _, err := common.FindProgramAddress(
		[][]byte{
			[]byte(seed),
			program.Bytes(),
			mint.Bytes(),
		},
		program,
	)
	if err != nil {
		panic(fmt.Errorf("derive pda failed: seed=%s program=%s mint=%s: %w", seed, program.ToBase58(), mint.ToBase58(), err))
	}
	return pda
}

// DeriveAssociatedAccount 计算 owner 在 mint 下的关联 token 账户地址：
// seeds = [owner, tokenProgram, mint]，owner = associatedTokenProgram
func DeriveAssociatedAccount(owner, mint, tokenProgram, associatedTokenProgram common.PublicKey) common.PublicKey {
	ata, _, err := common.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			tokenProgram.Bytes(),
			mint.Bytes(),
		},
		associatedTokenProgram,
	)
	if err != nil {
		panic(fmt.Errorf("derive associated account failed: owner=%s mint=%s: %w", owner.ToBase58(), mint.ToBase58(), err))
	}
	return ata
}
