package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"gopkg.in/yaml.v3"

	"token-launchpad-sol/internal/types"
	"token-launchpad-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `json:"format,default=console" yaml:"format"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional" yaml:"log_dir"`       // 日志目录（可为相对路径或绝对路径）
	Level    string `json:"level,default=info" yaml:"level"`       // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional" yaml:"compress"`     // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// SolanaConfig 表示链上 RPC 配置
type SolanaConfig struct {
	Endpoint          string `json:"endpoint,default=https://api.devnet.solana.com" yaml:"endpoint"` // RPC 地址，默认 devnet
	ConfirmIntervalMs int    `json:"confirm_interval_ms,default=1000" yaml:"confirm_interval_ms"`    // 轮询交易状态的间隔
	ConfirmTimeoutMs  int    `json:"confirm_timeout_ms,default=60000" yaml:"confirm_timeout_ms"`     // 等待交易确认的上限
}

func (c *SolanaConfig) ConfirmInterval() time.Duration {
	return time.Duration(c.ConfirmIntervalMs) * time.Millisecond
}

func (c *SolanaConfig) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutMs) * time.Millisecond
}

// ProgramsConfig 链上程序地址（base58），可替换为测试网部署或测试替身
type ProgramsConfig struct {
	Token           string `json:"token,default=TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA" yaml:"token"`
	AssociatedToken string `json:"associated_token,default=ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL" yaml:"associated_token"`
	Metadata        string `json:"metadata,default=metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s" yaml:"metadata"`
}

// PinataConfig 表示 Pinata 固定服务配置
type PinataConfig struct {
	PinFileURL  string `json:"pin_file_url,default=https://api.pinata.cloud/pinning/pinFileToIPFS" yaml:"pin_file_url"`
	PinJSONURL  string `json:"pin_json_url,default=https://api.pinata.cloud/pinning/pinJSONToIPFS" yaml:"pin_json_url"`
	APIKey      string `json:"api_key,optional" yaml:"api_key"`       // 支持 ${PINATA_API_KEY}
	SecretKey   string `json:"secret_key,optional" yaml:"secret_key"` // 支持 ${PINATA_SECRET_KEY}
	GatewayBase string `json:"gateway_base,default=https://gateway.pinata.cloud/ipfs/" yaml:"gateway_base"`
	TimeoutMs   int    `json:"timeout_ms,default=30000" yaml:"timeout_ms"`
}

func (c *PinataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

const (
	StorageModePinata = "pinata"
	StorageModeProxy  = "proxy"
)

// StorageConfig 选择上传通道：直连 Pinata 或经由上传代理
type StorageConfig struct {
	Mode     string `json:"mode,default=pinata,options=pinata|proxy" yaml:"mode"`
	ProxyURL string `json:"proxy_url,optional" yaml:"proxy_url"` // mode=proxy 时的代理根地址，例如 http://127.0.0.1:8888
}

// WalletConfig 本地钱包配置（CLI 使用）
type WalletConfig struct {
	KeypairPath string `json:"keypair_path,optional" yaml:"keypair_path"` // solana-keygen 生成的 JSON 数组文件
	SecretKey   string `json:"secret_key,optional" yaml:"secret_key"`     // 或 base58 编码的 64 字节私钥，支持 ${ENV}
	AutoApprove bool   `json:"auto_approve,optional" yaml:"auto_approve"` // 跳过终端签名确认
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置，Brokers 为空时不发送事件
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional" yaml:"brokers"`       // Kafka broker 地址，多个用英文逗号分隔
	BatchSize     int    `json:"batch_size,optional" yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs      int    `json:"linger_ms,optional" yaml:"linger_ms"`   // 批处理最大延迟（毫秒）
	Topic         string `json:"topic,default=launchpad_token_event" yaml:"topic"`
	Partitions    int    `json:"partitions,default=1,range=[1:]" yaml:"partitions"`
	SendTimeoutMs int    `json:"send_timeout_ms,default=3000" yaml:"send_timeout_ms"`
}

func (c *KafkaProducerConfig) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

func (c *KafkaProducerConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMs) * time.Millisecond
}

// RedisConfig 上传代理限流使用，Addr 为空时不限流
type RedisConfig struct {
	Addr     string `json:"addr,optional" yaml:"addr"`
	Password string `json:"password,optional" yaml:"password"`
	DB       int    `json:"db,optional" yaml:"db"`
}

// ApiConfig 上传代理 HTTP 服务配置
type ApiConfig struct {
	Name    string `json:"name,default=launchpad-api" yaml:"name"`
	Host    string `json:"host,default=0.0.0.0" yaml:"host"`
	Port    int    `json:"port,default=8888" yaml:"port"`
	MaxBody int64  `json:"max_body,default=11534336" yaml:"max_body"` // 请求体上限（字节），需大于图片上限

	Quota struct {
		Limit     int `json:"limit,optional" yaml:"limit"`                 // 每个窗口允许的上传次数，<=0 不限流
		WindowSec int `json:"window_sec,default=60" yaml:"window_sec"` // 窗口长度（秒）
	} `json:"quota" yaml:"quota"`
}

// Config 是主配置结构体
type Config struct {
	LogConf           LogConfig           `json:"logger" yaml:"logger"`
	Solana            SolanaConfig        `json:"solana" yaml:"solana"`
	Programs          ProgramsConfig      `json:"programs" yaml:"programs"`
	Pinata            PinataConfig        `json:"pinata" yaml:"pinata"`
	Storage           StorageConfig       `json:"storage" yaml:"storage"`
	Wallet            WalletConfig        `json:"wallet" yaml:"wallet"`
	KafkaProducerConf KafkaProducerConfig `json:"kafka_producer" yaml:"kafka_producer"`
	Redis             RedisConfig         `json:"redis" yaml:"redis"`
	Api               ApiConfig           `json:"api" yaml:"api"`
}

// Load 读取 YAML 配置，展开 ${ENV} 并补全默认值
func Load(path string) (*Config, error) {
	var c Config
	if err := conf.Load(path, &c, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &c, nil
}

// MustLoad 加载失败直接退出
func MustLoad(path string) *Config {
	var c Config
	conf.MustLoad(path, &c, conf.UseEnv())
	return &c
}

// Parse 从 YAML 内容加载配置，行为与 Load 一致
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := conf.LoadFromYamlBytes([]byte(os.ExpandEnv(string(raw))), &c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// Validate 检查程序地址与上传模式，加载时由 conf 自动调用
func (c *Config) Validate() error {
	for name, addr := range map[string]string{
		"programs.token":            c.Programs.Token,
		"programs.associated_token": c.Programs.AssociatedToken,
		"programs.metadata":         c.Programs.Metadata,
	} {
		if _, err := types.TryPubkeyFromBase58(addr); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if c.Storage.Mode == StorageModeProxy && c.Storage.ProxyURL == "" {
		return fmt.Errorf("storage.proxy_url is required when storage.mode=%s", StorageModeProxy)
	}
	return nil
}

const masked = "******"

// Dump 输出补全默认值后的 YAML 配置，密钥类字段打码
func Dump(c *Config) ([]byte, error) {
	out := *c
	for _, s := range []*string{&out.Pinata.APIKey, &out.Pinata.SecretKey, &out.Wallet.SecretKey, &out.Redis.Password} {
		if *s != "" {
			*s = masked
		}
	}
	return yaml.Marshal(&out)
}
