package guestqa

import (
	"context"

	v1 "github.com/stayline/guestqa/api/guestqa/v1"
	"github.com/stayline/guestqa/internal/service"
)

func (c *ControllerV1) Healthz(ctx context.Context, req *v1.HealthzReq) (res *v1.HealthzRes, err error) {
	return service.GetAnswerService().Health(ctx), nil
}
