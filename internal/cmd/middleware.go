package cmd

import (
	"net/http"
	"strings"

	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"

	"github.com/stayline/guestqa/core/config"
	"github.com/stayline/guestqa/core/errors"
)

// genericErrorMessage 对外的统一失败话术，内部细节只在debug模式下透出
const genericErrorMessage = "The service is temporarily unavailable. Please try again shortly."

// MiddlewareMultipartMaxMemory 限制音频上传的大小
func MiddlewareMultipartMaxMemory(r *ghttp.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		r.Middleware.Next()
		return
	}

	maxAudioSize := g.Cfg().MustGet(r.Context(), "ask.maxAudioSize", config.DefaultMaxAudioSize).Int64()
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		r.Response.WriteStatus(http.StatusRequestEntityTooLarge)
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    gcode.CodeInvalidParameter.Code(),
			Message: "Audio file exceeds the upload limit",
			Data:    nil,
		})
		return
	}

	r.Middleware.Next()
}

// MiddlewareHandlerResponse is the default middleware handling handler response object and its error.
func MiddlewareHandlerResponse(r *ghttp.Request) {
	r.Middleware.Next()

	// There's custom buffer content, it then exits current handler.
	if r.Response.BufferLength() > 0 || r.Response.Writer.BytesWritten() > 0 {
		return
	}

	ctx := r.Context()
	var (
		err = r.GetError()
		res = r.GetHandlerResponse()
	)
	if err != nil {
		// 协作方失败只对外给统一话术，细节留在日志；debug模式下透出原始错误
		g.Log().Errorf(ctx, "request failed: %v", err)

		status := http.StatusInternalServerError
		bizCode := gcode.CodeInternalError.Code()
		msg := genericErrorMessage

		if appErr := errors.GetAppError(err); appErr != nil {
			status = appErr.Code.HTTPStatusCode()
			bizCode = int(appErr.Code)
			if status < http.StatusInternalServerError {
				// 参数类错误可以直接回显给调用方
				msg = appErr.Message
			}
		}
		if g.Cfg().MustGet(ctx, "server.debug", false).Bool() {
			msg = err.Error()
		}

		r.Response.Status = status
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    bizCode,
			Message: msg,
			Data:    nil,
		})
		return
	}

	if r.Response.Status > 0 && r.Response.Status != http.StatusOK {
		code := gcode.CodeUnknown
		switch r.Response.Status {
		case http.StatusNotFound:
			code = gcode.CodeNotFound
		case http.StatusForbidden:
			code = gcode.CodeNotAuthorized
		}
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    code.Code(),
			Message: code.Message(),
			Data:    nil,
		})
		return
	}

	r.Response.WriteJson(ghttp.DefaultHandlerResponse{
		Code:    gcode.CodeOK.Code(),
		Message: gcode.CodeOK.Message(),
		Data:    res,
	})
}
