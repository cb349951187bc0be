package instruction

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/address"
	"token-launchpad-sol/internal/logic/domain"
)

// Builder 只负责组装指令，不做任何 I/O
type Builder struct {
	programs domain.Programs
}

func NewBuilder(programs domain.Programs) *Builder {
	return &Builder{programs: programs}
}

func (b *Builder) Programs() domain.Programs {
	return b.programs
}

// CreationParams 发币指令所需的全部输入
type CreationParams struct {
	Mint            common.PublicKey // 新 mint（临时生成的 TokenIdentity 公钥）
	Creator         common.PublicKey // 钱包地址：付费方 + mint/freeze/update 权限
	Draft           domain.TokenMetadataDraft
	MetadataURI     string // 已规范化为网关地址的元数据 JSON 地址
	RentLamports    uint64
	MetadataAddress common.PublicKey
}

// BuildCreationInstructions 固定返回三条指令，顺序不可调整：
//
// #0 - System.CreateAccount（为 mint 分配 82 字节，owner = Token Program）
// #1 - Token.InitializeMint（decimals，mint/freeze 权限 = 创建者）
// #2 - Metaplex.CreateMetadataAccountV3（引用 #0 创建、#1 初始化的 mint）
func (b *Builder) BuildCreationInstructions(p CreationParams) ([]types.Instruction, error) {
	if p.Draft.Name == "" {
		return nil, domain.Validationf("token name is required")
	}
	if p.Draft.Symbol == "" {
		return nil, domain.Validationf("token symbol is required")
	}
	if p.Draft.Decimals < 0 || p.Draft.Decimals > consts.MaxDecimals {
		return nil, domain.Validationf("decimals must be between 0 and %d", consts.MaxDecimals)
	}
	if len(p.MetadataURI) > consts.MaxURIBytes {
		return nil, fmt.Errorf("%w: metadata uri exceeds %d bytes", domain.ErrTransactionBuild, consts.MaxURIBytes)
	}

	createIx := system.CreateAccount(system.CreateAccountParam{
		From:     p.Creator,
		New:      p.Mint,
		Owner:    b.programs.Token,
		Lamports: p.RentLamports,
		Space:    consts.MintAccountSize,
	})

	freezeAuth := p.Creator
	initIx := token.InitializeMint(token.InitializeMintParam{
		Decimals:   uint8(p.Draft.Decimals),
		Mint:       p.Mint,
		MintAuth:   p.Creator,
		FreezeAuth: &freezeAuth,
	})
	initIx.ProgramID = b.programs.Token

	// 不带版税、creators、collection、uses；update authority 不签名，元数据保持可变
	metadataIx := token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
		Metadata:                p.MetadataAddress,
		Mint:                    p.Mint,
		MintAuthority:           p.Creator,
		Payer:                   p.Creator,
		UpdateAuthority:         p.Creator,
		UpdateAuthorityIsSigner: false,
		IsMutable:               true,
		Data: token_metadata.DataV2{
			Name:   p.Draft.Name,
			Symbol: p.Draft.Symbol,
			Uri:    p.MetadataURI,
		},
	})
	metadataIx.ProgramID = b.programs.Metadata

	return []types.Instruction{createIx, initIx, metadataIx}, nil
}

// AssociatedAccount 返回 owner 在 mint 下的关联 token 账户
func (b *Builder) AssociatedAccount(owner, mint common.PublicKey) common.PublicKey {
	return address.DeriveAssociatedAccount(owner, mint, b.programs.Token, b.programs.AssociatedToken)
}

// BuildMintInstructions 关联账户不存在时先创建，再追加一条 MintTo。
// amountBaseUnits 已按 decimals 换算。
func (b *Builder) BuildMintInstructions(mint, owner common.PublicKey, amountBaseUnits uint64, accountExists bool) ([]types.Instruction, error) {
	if amountBaseUnits == 0 {
		return nil, domain.Validationf("please enter a valid amount")
	}

	ata := b.AssociatedAccount(owner, mint)
	ixs := make([]types.Instruction, 0, 2)
	if !accountExists {
		ixs = append(ixs, b.createAssociatedAccount(owner, owner, mint, ata))
	}

	mintToIx := token.MintTo(token.MintToParam{
		Mint:   mint,
		To:     ata,
		Auth:   owner,
		Amount: amountBaseUnits,
	})
	mintToIx.ProgramID = b.programs.Token
	ixs = append(ixs, mintToIx)
	return ixs, nil
}

// createAssociatedAccount 关联账户创建指令，token program 位替换为注入的地址：
//
// #0 - Payer（签名，可写）
// #1 - 关联账户（可写）
// #2 - Owner
// #3 - Mint
// #4 - System Program
// #5 - Token Program
// #6 - Rent Sysvar
func (b *Builder) createAssociatedAccount(payer, owner, mint, ata common.PublicKey) types.Instruction {
	ix := associated_token_account.Create(associated_token_account.CreateParam{
		Funder:                 payer,
		Owner:                  owner,
		Mint:                   mint,
		AssociatedTokenAccount: ata,
	})
	ix.ProgramID = b.programs.AssociatedToken
	ix.Accounts[5].PubKey = b.programs.Token
	return ix
}
