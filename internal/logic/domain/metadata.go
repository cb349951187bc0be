package domain

import "token-launchpad-sol/internal/consts"

// MetadataDocument 上传到 IPFS 的链下元数据 JSON
type MetadataDocument struct {
	Name       string             `json:"name"`
	Symbol     string             `json:"symbol"`
	Image      string             `json:"image"`
	Properties MetadataProperties `json:"properties"`
}

type MetadataProperties struct {
	Files    []MetadataFile `json:"files"`
	Category string         `json:"category"`
}

type MetadataFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// NewMetadataDocument imageURI 为空时 files 为空数组（序列化为 []，而不是 null）
func NewMetadataDocument(draft TokenMetadataDraft, imageURI, imageType string) MetadataDocument {
	files := make([]MetadataFile, 0, 1)
	if imageURI != "" {
		files = append(files, MetadataFile{URI: imageURI, Type: imageType})
	}
	return MetadataDocument{
		Name:   draft.Name,
		Symbol: draft.Symbol,
		Image:  imageURI,
		Properties: MetadataProperties{
			Files:    files,
			Category: consts.MetadataCategoryImage,
		},
	}
}
