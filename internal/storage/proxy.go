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
	"strings"

	"github.com/zeromicro/go-zero/rest/httpc"

	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/domain"
)

// ProxyUploader 经由上传代理（cmd/api）上传，Pinata 凭证只保存在服务端
type ProxyUploader struct {
	baseURL string
	client  httpc.Service
}

// proxyResponse 代理返回 {"url": "..."} 或 {"error": "..."}
type proxyResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func NewProxyUploader(baseURL string, client *http.Client) *ProxyUploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpc.NewServiceWithClient("upload-proxy", client),
	}
}

func (u *ProxyUploader) UploadBinary(ctx context.Context, fileName string, data []byte, contentType string) (UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: create form part: %v", domain.ErrUpload, err)
	}
	if _, err = part.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("%w: write form part: %v", domain.ErrUpload, err)
	}
	if err = w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("%w: close form: %v", domain.ErrUpload, err)
	}
	return u.post(ctx, consts.UploadFileRoute, w.FormDataContentType(), body)
}

func (u *ProxyUploader) UploadJSON(ctx context.Context, document interface{}) (UploadResult, error) {
	raw, err := json.Marshal(document)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: marshal document: %v", domain.ErrUpload, err)
	}
	return u.post(ctx, consts.UploadJSONRoute, "application/json", bytes.NewReader(raw))
}

func (u *ProxyUploader) post(ctx context.Context, route, contentType string, body io.Reader) (UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+route, body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: new request: %v", domain.ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.DoRequest(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	var pr proxyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&pr); err != nil {
		return UploadResult{}, fmt.Errorf("%w: decode response (status %d): %v", domain.ErrUpload, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UploadResult{}, fmt.Errorf("%w: proxy status %d: %s", domain.ErrUpload, resp.StatusCode, pr.Error)
	}
	if pr.URL == "" {
		return UploadResult{}, fmt.Errorf("%w: proxy response missing url", domain.ErrUpload)
	}
	return UploadResult{URI: pr.URL}, nil
}
