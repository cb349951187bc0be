package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/address"
	"token-launchpad-sol/internal/logic/assembler"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/logic/instruction"
	"token-launchpad-sol/internal/storage"
	"token-launchpad-sol/pkg/logger"
)

const creationName = "CreationWorkflow"

// Deps 工作流依赖的外部能力，Events 与 NewIdentity 可为空
type Deps struct {
	Wallet   chain.Wallet
	Ledger   chain.Ledger
	Uploader storage.Uploader
	Gateway  storage.Gateway
	Builder  *instruction.Builder
	Events   EventSink

	// NewIdentity 生成新 mint 密钥对，默认 types.NewAccount
	NewIdentity func() types.Account
}

// CreationRequest 表单快照 + 可选图片
type CreationRequest struct {
	Draft domain.TokenMetadataDraft
	Image *domain.ImageArtifact
}

// CreationResult 仅在 Submitted 时返回
type CreationResult struct {
	Mint        common.PublicKey
	Signature   string
	MetadataURI string
	ImageURI    string
}

// CreationWorkflow 一次发币尝试。不可恢复：失败后重试需要新建实例，并生成新的 mint 身份。
//
// Idle -> Validating -> UploadingImage? -> UploadingMetadata -> BuildingTransaction
// -> AwaitingWalletSignature -> Submitted | Failed
type CreationWorkflow struct {
	machine
	deps Deps
}

func NewCreationWorkflow(deps Deps) *CreationWorkflow {
	if deps.NewIdentity == nil {
		deps.NewIdentity = types.NewAccount
	}
	return &CreationWorkflow{machine: newMachine(creationName), deps: deps}
}

func (w *CreationWorkflow) Run(ctx context.Context, req CreationRequest) (result CreationResult, err error) {
	if err = w.start(); err != nil {
		return CreationResult{}, err
	}
	defer w.recoverPanic(&err)

	// 每次运行生成新的 mint 身份，失败后随实例一起丢弃
	identity := w.deps.NewIdentity()

	// Validating
	w.enter(domain.StateValidating)
	creator, ok := w.deps.Wallet.PublicKey(ctx)
	if !ok {
		return CreationResult{}, w.fail(domain.ErrWalletNotConnected)
	}
	draft, err := req.Draft.Validate()
	if err != nil {
		return CreationResult{}, w.fail(err)
	}
	if err = req.Image.Validate(); err != nil {
		return CreationResult{}, w.fail(err)
	}

	// UploadingImage：失败降级为空图片，不终止流程
	imageURI := w.deps.Gateway.Normalize(draft.ImageURI)
	imageType := ""
	if req.Image != nil {
		w.enter(domain.StateUploadingImage)
		imageType = req.Image.ContentType
		res, upErr := w.deps.Uploader.UploadBinary(ctx, req.Image.FileName, req.Image.Data, req.Image.ContentType)
		if upErr != nil {
			logger.Warnf("[%s] 图片上传失败，继续使用空图片: file=%s err=%v", creationName, req.Image.FileName, upErr)
			imageURI = ""
		} else {
			imageURI = w.deps.Gateway.Normalize(res.URI)
		}
	}
	if imageURI == "" {
		imageType = ""
	}

	// UploadingMetadata：失败直接终止，不组装交易
	w.enter(domain.StateUploadingMetadata)
	doc := domain.NewMetadataDocument(draft, imageURI, imageType)
	res, err := w.deps.Uploader.UploadJSON(ctx, doc)
	if err != nil {
		return CreationResult{}, w.fail(classify(err, domain.ErrUpload))
	}
	metadataURI := w.deps.Gateway.Normalize(res.URI)
	if metadataURI == "" {
		return CreationResult{}, w.fail(fmt.Errorf("%w: empty metadata uri", domain.ErrUpload))
	}
	logger.Infof("[%s] 元数据已上传: symbol=%s uri=%s", creationName, draft.Symbol, metadataURI)

	// BuildingTransaction
	w.enter(domain.StateBuildingTransaction)
	tx, err := w.build(ctx, identity, creator, draft, metadataURI)
	if err != nil {
		return CreationResult{}, w.fail(err)
	}

	// AwaitingWalletSignature
	w.enter(domain.StateAwaitingWalletSignature)
	sig, err := w.deps.Wallet.SignAndSend(ctx, tx)
	if err != nil {
		return CreationResult{}, w.fail(classify(err, domain.ErrWalletRejection))
	}

	w.enter(domain.StateSubmitted)
	result = CreationResult{
		Mint:        identity.PublicKey,
		Signature:   sig,
		MetadataURI: metadataURI,
		ImageURI:    imageURI,
	}
	logger.Infof("[%s] 发币交易已提交: mint=%s symbol=%s signature=%s",
		creationName, result.Mint.ToBase58(), draft.Symbol, sig)

	publish(ctx, creationName, w.deps.Events, domain.LaunchEvent{
		Kind:        domain.EventTokenCreated,
		Mint:        result.Mint.ToBase58(),
		Owner:       creator.ToBase58(),
		Signature:   sig,
		Name:        draft.Name,
		Symbol:      draft.Symbol,
		Decimals:    draft.Decimals,
		MetadataURI: metadataURI,
		Timestamp:   time.Now().Unix(),
	})
	return result, nil
}

// build 推导元数据地址、报价租金、组装三条指令，最后读取 blockhash 并用 mint 身份签名
func (w *CreationWorkflow) build(
	ctx context.Context,
	identity types.Account,
	creator common.PublicKey,
	draft domain.TokenMetadataDraft,
	metadataURI string,
) (types.Transaction, error) {
	metadataAddr := address.DeriveMetadata(identity.PublicKey, w.deps.Builder.Programs().Metadata)

	rent, err := w.deps.Ledger.GetRentExemptionLamports(ctx, consts.MintAccountSize)
	if err != nil {
		return types.Transaction{}, classify(err, domain.ErrNetwork)
	}

	ixs, err := w.deps.Builder.BuildCreationInstructions(instruction.CreationParams{
		Mint:            identity.PublicKey,
		Creator:         creator,
		Draft:           draft,
		MetadataURI:     metadataURI,
		RentLamports:    rent,
		MetadataAddress: metadataAddr,
	})
	if err != nil {
		return types.Transaction{}, err
	}

	blockhash, err := w.deps.Ledger.GetFreshnessToken(ctx)
	if err != nil {
		return types.Transaction{}, classify(err, domain.ErrNetwork)
	}
	return assembler.Assemble(ixs, creator, blockhash, &identity)
}
