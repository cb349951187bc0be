package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    consts.UploadFileRoute,
				Handler: UploadFileHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    consts.UploadJSONRoute,
				Handler: UploadJSONHandler(serverCtx),
			},
		},
	)
}
