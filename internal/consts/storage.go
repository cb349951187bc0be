package consts

// IPFS / Pinata
const (
	IPFSProtocolPrefix    = "ipfs://"
	DefaultGatewayBase    = "https://gateway.pinata.cloud/ipfs/"
	PinataPinFileURL      = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	PinataPinJSONURL      = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	PinataAPIKeyHeader    = "pinata_api_key"
	PinataSecretKeyHeader = "pinata_secret_api_key"
	MetadataCategoryImage = "image"
)

// 上传代理路由
const (
	UploadFileRoute = "/api/upload-file"
	UploadJSONRoute = "/api/upload-json"
)
