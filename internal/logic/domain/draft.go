package domain

import (
	"strings"
	"unicode/utf8"

	"token-launchpad-sol/internal/consts"
)

// TokenMetadataDraft 表单快照，按值传入工作流，入口处校验一次
type TokenMetadataDraft struct {
	Name     string
	Symbol   string
	Decimals int
	ImageURI string
}

// ImageArtifact 待上传的图片
type ImageArtifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Normalize 去除首尾空白，symbol 转大写
func (d TokenMetadataDraft) Normalize() TokenMetadataDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Symbol = strings.ToUpper(strings.TrimSpace(d.Symbol))
	d.ImageURI = strings.TrimSpace(d.ImageURI)
	return d
}

// Validate 返回规范化后的草稿；对同一草稿重复调用结果一致。
// symbol 超过 6 个字符直接拒绝，不做截断。
func (d TokenMetadataDraft) Validate() (TokenMetadataDraft, error) {
	n := d.Normalize()
	if n.Name == "" {
		return n, Validationf("token name is required")
	}
	if len(n.Name) > consts.MaxNameBytes {
		return n, Validationf("token name exceeds %d bytes", consts.MaxNameBytes)
	}
	if n.Symbol == "" {
		return n, Validationf("token symbol is required")
	}
	if utf8.RuneCountInString(n.Symbol) > consts.MaxSymbolChars || len(n.Symbol) > consts.MaxSymbolBytes {
		return n, Validationf("token symbol must be at most %d characters", consts.MaxSymbolChars)
	}
	if n.Decimals < 0 || n.Decimals > consts.MaxDecimals {
		return n, Validationf("decimals must be between 0 and %d", consts.MaxDecimals)
	}
	return n, nil
}

// Validate 图片必须为 image/* 且不超过 10MB
func (a *ImageArtifact) Validate() error {
	if a == nil {
		return nil
	}
	if len(a.Data) == 0 {
		return Validationf("image file is empty")
	}
	if !strings.HasPrefix(strings.ToLower(a.ContentType), consts.ImageContentType) {
		return Validationf("please select an image file")
	}
	if len(a.Data) > consts.MaxImageBytes {
		return Validationf("image exceeds %d MB", consts.MaxImageBytes/1024/1024)
	}
	return nil
}
