package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/zeromicro/go-zero/rest/httpc"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/pkg/logger"
)

const maxResponseBytes = 64 * 1024

// PinataUploader 直连 Pinata：pinFileToIPFS / pinJSONToIPFS。
// 图片返回 ipfs://<cid>，JSON 返回网关地址。
type PinataUploader struct {
	pinFileURL string
	pinJSONURL string
	apiKey     string
	secretKey  string
	gateway    Gateway
	client     httpc.Service
}

func NewPinataUploader(c config.PinataConfig) *PinataUploader {
	timeout := c.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PinataUploader{
		pinFileURL: c.PinFileURL,
		pinJSONURL: c.PinJSONURL,
		apiKey:     c.APIKey,
		secretKey:  c.SecretKey,
		gateway:    NewGateway(c.GatewayBase),
		client:     httpc.NewServiceWithClient("pinata", &http.Client{Timeout: timeout}),
	}
}

func (u *PinataUploader) UploadBinary(ctx context.Context, fileName string, data []byte, contentType string) (UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: create form part: %v", domain.ErrUpload, err)
	}
	if _, err = part.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("%w: write form part: %v", domain.ErrUpload, err)
	}
	if err = w.WriteField("pinataMetadata", fmt.Sprintf(`{"name":%q}`, fileName)); err != nil {
		return UploadResult{}, fmt.Errorf("%w: write metadata field: %v", domain.ErrUpload, err)
	}
	if err = w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("%w: close form: %v", domain.ErrUpload, err)
	}

	cid, err := u.pin(ctx, u.pinFileURL, w.FormDataContentType(), body)
	if err != nil {
		return UploadResult{}, err
	}
	logger.Infof("[Pinata] 文件上传成功: name=%s size=%d cid=%s", fileName, len(data), cid)
	return UploadResult{URI: protocolURI(cid)}, nil
}

func (u *PinataUploader) UploadJSON(ctx context.Context, document interface{}) (UploadResult, error) {
	raw, err := json.Marshal(document)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: marshal document: %v", domain.ErrUpload, err)
	}

	cid, err := u.pin(ctx, u.pinJSONURL, "application/json", bytes.NewReader(raw))
	if err != nil {
		return UploadResult{}, err
	}
	logger.Infof("[Pinata] JSON 上传成功: size=%d cid=%s", len(raw), cid)
	return UploadResult{URI: u.gateway.URLFor(cid)}, nil
}

// pin 发起一次 POST，成功条件：2xx 且响应体带 IpfsHash
func (u *PinataUploader) pin(ctx context.Context, url, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("%w: new request: %v", domain.ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(consts.PinataAPIKeyHeader, u.apiKey)
	req.Header.Set(consts.PinataSecretKeyHeader, u.secretKey)

	resp, err := u.client.DoRequest(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrUpload, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: HTTP error! status: %d", domain.ErrUpload, resp.StatusCode)
	}

	var pr pinResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrUpload, err)
	}
	if err := checkCID(pr.IpfsHash); err != nil {
		return "", err
	}
	return pr.IpfsHash, nil
}
