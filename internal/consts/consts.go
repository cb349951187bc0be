package consts

// SPL Mint 账户固定大小（字节）
const MintAccountSize = 82

// Metaplex 元数据 PDA 种子
const MetadataSeed = "metadata"

// 表单约束
const (
	MaxSymbolChars  = 6
	MaxDecimals     = 9
	DefaultDecimals = 9
)

// Metaplex DataV2 字段长度上限（字节）
const (
	MaxNameBytes   = 32
	MaxSymbolBytes = 10
	MaxURIBytes    = 200
)

// 图片上传约束
const (
	MaxImageBytes    = 10 * 1024 * 1024
	ImageContentType = "image/"
)
