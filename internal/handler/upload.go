package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/zeromicro/go-zero/rest/httpx"

	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/svc"
	"token-launchpad-sol/pkg/logger"
)

type uploadResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgNoFile       = "No file provided"
	msgInvalidJSON  = "Invalid JSON body"
	msgUploadFailed = "Upload failed"
	msgRateLimited  = "Too many uploads, please retry later"
)

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	httpx.WriteJsonCtx(r.Context(), w, code, errorResponse{Error: msg})
}

// allow 上传配额检查；Redis 故障时放行并记录日志
func allow(svcCtx *svc.ServiceContext, w http.ResponseWriter, r *http.Request) bool {
	ok, remaining, err := svcCtx.Quota.Allow(r.Context(), httpx.GetRemoteAddr(r))
	if err != nil {
		logger.Warnf("[UploadHandler] 配额检查失败，放行: %v", err)
		return true
	}
	if remaining >= 0 {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	}
	if !ok {
		writeError(w, r, http.StatusTooManyRequests, msgRateLimited)
		return false
	}
	return true
}

// UploadFileHandler POST /api/upload-file，multipart 字段 file
func UploadFileHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(svcCtx, w, r) {
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, msgNoFile)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, consts.MaxImageBytes+1))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, msgNoFile)
			return
		}
		artifact := &domain.ImageArtifact{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
		if err := artifact.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, domain.UserMessage(err))
			return
		}

		res, err := svcCtx.Uploader.UploadBinary(r.Context(), artifact.FileName, artifact.Data, artifact.ContentType)
		if err != nil {
			logger.Errorf("[UploadHandler] 文件上传失败: name=%s err=%v", artifact.FileName, err)
			writeError(w, r, http.StatusInternalServerError, msgUploadFailed)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, uploadResponse{URL: svcCtx.Gateway.Normalize(res.URI)})
	}
}

// UploadJSONHandler POST /api/upload-json，请求体原样固定到 IPFS
func UploadJSONHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allow(svcCtx, w, r) {
			return
		}

		var doc json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, http.StatusRequestEntityTooLarge, msgInvalidJSON)
				return
			}
			writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		res, err := svcCtx.Uploader.UploadJSON(r.Context(), doc)
		if err != nil {
			logger.Errorf("[UploadHandler] JSON 上传失败: %v", err)
			writeError(w, r, http.StatusInternalServerError, msgUploadFailed)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, uploadResponse{URL: svcCtx.Gateway.Normalize(res.URI)})
	}
}
