package guestqa

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	v1 "github.com/stayline/guestqa/api/guestqa/v1"
	"github.com/stayline/guestqa/internal/service"
)

func (c *ControllerV1) Ask(ctx context.Context, req *v1.AskReq) (res *v1.AskRes, err error) {
	r := g.RequestFromCtx(ctx)

	// Log request parameters
	g.Log().Infof(ctx, "Ask request received - ContentType: %s, RemoteAddr: %s",
		r.Header.Get("Content-Type"), r.GetRemoteIp())

	// 载荷解析交给service层的ingestor，按Content-Type分发
	return service.GetAnswerService().Ask(ctx, r)
}
