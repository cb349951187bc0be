package storage

import (
	"strings"

	"token-launchpad-sol/internal/consts"
)

// Gateway 把 ipfs:// 或裸 CID 转换成可公开访问的网关地址
type Gateway struct {
	base string
}

func NewGateway(base string) Gateway {
	if base == "" {
		base = consts.DefaultGatewayBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Gateway{base: base}
}

func (g Gateway) Base() string {
	return g.base
}

// Normalize 规则：
//   - http(s):// 原样返回
//   - ipfs://<cid>[/path] 去掉协议前缀后拼接网关
//   - 其余视为裸 CID
//   - 空串返回空串
func (g Gateway) Normalize(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}
	lower := strings.ToLower(uri)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return uri
	}
	if strings.HasPrefix(lower, consts.IPFSProtocolPrefix) {
		uri = uri[len(consts.IPFSProtocolPrefix):]
		// 兼容 ipfs://ipfs/<cid>
		uri = strings.TrimPrefix(uri, "ipfs/")
	}
	return g.base + strings.TrimLeft(uri, "/")
}

// URLFor 由 CID 生成网关地址
func (g Gateway) URLFor(cid string) string {
	return g.base + cid
}
