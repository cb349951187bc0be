package domain

// EventKind 发币平台事件类型
type EventKind string

const (
	EventTokenCreated EventKind = "token_created"
	EventTokenMinted  EventKind = "token_minted"
)

// LaunchEvent 交易提交成功后对外发布的通知
type LaunchEvent struct {
	Kind        EventKind
	Mint        string
	Owner       string
	Signature   string
	Name        string // 仅 token_created
	Symbol      string // 仅 token_created
	Decimals    int
	MetadataURI string // 仅 token_created
	Amount      uint64 // 仅 token_minted，最小单位
	Timestamp   int64  // unix 秒
}
