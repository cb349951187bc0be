package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/domain"
)

// UploadResult 上传结果，URI 可能是 ipfs:// 也可能是网关地址，由调用方规范化
type UploadResult struct {
	URI string
}

// Uploader 内容寻址存储能力。每次调用只发起一次请求，不做内部重试。
type Uploader interface {
	UploadBinary(ctx context.Context, fileName string, data []byte, contentType string) (UploadResult, error)
	UploadJSON(ctx context.Context, document interface{}) (UploadResult, error)
}

// pinResponse Pinata 固定接口的响应体
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// checkCID 校验返回的内容标识：
// CIDv0（Qm 开头）必须是 34 字节的 sha2-256 multihash；CIDv1 只校验非空
func checkCID(cid string) error {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return fmt.Errorf("%w: response missing IpfsHash", domain.ErrUpload)
	}
	if strings.HasPrefix(cid, "Qm") {
		raw, err := base58.Decode(cid)
		if err != nil || len(raw) != 34 || raw[0] != 0x12 || raw[1] != 0x20 {
			return fmt.Errorf("%w: malformed CIDv0 %q", domain.ErrUpload, cid)
		}
	}
	return nil
}

func protocolURI(cid string) string {
	return consts.IPFSProtocolPrefix + cid
}
