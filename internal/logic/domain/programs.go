package domain

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/types"
)

// Programs 链上程序地址，构造时注入，测试中可替换
type Programs struct {
	Token           common.PublicKey
	AssociatedToken common.PublicKey
	Metadata        common.PublicKey
}

// DefaultPrograms 主网/devnet 上的标准部署
func DefaultPrograms() Programs {
	return Programs{
		Token:           common.TokenProgramID,
		AssociatedToken: common.SPLAssociatedTokenAccountProgramID,
		Metadata:        common.MetaplexTokenMetaProgramID,
	}
}

func ProgramsFromConfig(c config.ProgramsConfig) (Programs, error) {
	token, err := types.TryPublicKeyFromBase58(c.Token)
	if err != nil {
		return Programs{}, fmt.Errorf("token program: %w", err)
	}
	ata, err := types.TryPublicKeyFromBase58(c.AssociatedToken)
	if err != nil {
		return Programs{}, fmt.Errorf("associated token program: %w", err)
	}
	meta, err := types.TryPublicKeyFromBase58(c.Metadata)
	if err != nil {
		return Programs{}, fmt.Errorf("metadata program: %w", err)
	}
	return Programs{Token: token, AssociatedToken: ata, Metadata: meta}, nil
}
