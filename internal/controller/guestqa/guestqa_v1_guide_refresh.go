package guestqa

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	v1 "github.com/stayline/guestqa/api/guestqa/v1"
	"github.com/stayline/guestqa/internal/service"
)

func (c *ControllerV1) GuideRefresh(ctx context.Context, req *v1.GuideRefreshReq) (res *v1.GuideRefreshRes, err error) {
	g.Log().Info(ctx, "Guide refresh requested, invalidating both caches")

	return service.GetAnswerService().RefreshGuide(ctx)
}
