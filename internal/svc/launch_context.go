package svc

import (
	"fmt"
	"net/http"

	"github.com/blocto/solana-go-sdk/client"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/logic/instruction"
	"token-launchpad-sol/internal/logic/workflow"
	"token-launchpad-sol/internal/mq"
	"token-launchpad-sol/internal/storage"
	"token-launchpad-sol/pkg/logger"
)

// LaunchContext CLI 发币/铸币所需的全部依赖
type LaunchContext struct {
	Config    *config.Config
	Wallet    chain.Wallet
	Ledger    chain.Ledger
	Uploader  storage.Uploader
	Gateway   storage.Gateway
	Builder   *instruction.Builder
	Confirm   chain.ConfirmOptions // create --mint-amount 等待发币交易确认
	publisher *mq.EventPublisher
}

// NewLaunchContext 按配置装配钱包、RPC、上传通道与事件发布
func NewLaunchContext(c *config.Config, confirm chain.ConfirmFunc) (*LaunchContext, error) {
	programs, err := domain.ProgramsFromConfig(c.Programs)
	if err != nil {
		return nil, err
	}

	rpc := client.NewClient(c.Solana.Endpoint)
	account, err := chain.LoadKeypair(c.Wallet)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	if c.Wallet.AutoApprove {
		confirm = nil
	}

	var uploader storage.Uploader
	switch c.Storage.Mode {
	case config.StorageModeProxy:
		uploader = storage.NewProxyUploader(c.Storage.ProxyURL, &http.Client{Timeout: c.Pinata.Timeout()})
	default:
		uploader = storage.NewPinataUploader(c.Pinata)
	}

	ctx := &LaunchContext{
		Config:   c,
		Wallet:   chain.NewKeypairWallet(account, rpc, confirm),
		Ledger:   chain.NewRpcLedger(rpc),
		Uploader: uploader,
		Gateway:  storage.NewGateway(c.Pinata.GatewayBase),
		Builder:  instruction.NewBuilder(programs),
		Confirm: chain.ConfirmOptions{
			Interval: c.Solana.ConfirmInterval(),
			Timeout:  c.Solana.ConfirmTimeout(),
		},
	}

	if c.KafkaProducerConf.Enabled() {
		producer, err := mq.NewKafkaProducer(c.KafkaProducerConf)
		if err != nil {
			// 事件通知不是必需能力，初始化失败只告警
			logger.Warnf("[LaunchContext] Kafka producer 初始化失败，不发送事件: %v", err)
		} else {
			ctx.publisher = mq.NewEventPublisher(producer, c.KafkaProducerConf)
		}
	}

	logger.Infof("[LaunchContext] 初始化完成: rpc=%s storage=%s wallet=%s",
		c.Solana.Endpoint, c.Storage.Mode, account.PublicKey.ToBase58())
	return ctx, nil
}

// Deps 每次尝试都从这里取依赖，新建工作流实例
func (ctx *LaunchContext) Deps() workflow.Deps {
	deps := workflow.Deps{
		Wallet:   ctx.Wallet,
		Ledger:   ctx.Ledger,
		Uploader: ctx.Uploader,
		Gateway:  ctx.Gateway,
		Builder:  ctx.Builder,
	}
	if ctx.publisher != nil {
		deps.Events = ctx.publisher
	}
	return deps
}

// Close 关闭服务上下文中的资源
func (ctx *LaunchContext) Close() {
	if ctx.publisher != nil {
		ctx.publisher.Close()
	}
}
