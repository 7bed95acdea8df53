package ingest

import (
	"context"
	"io"
	"mime"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/net/ghttp"

	"github.com/stayline/guestqa/core/errors"
)

// SourceKind 请求载荷的形态，根据声明的Content-Type每个请求只判定一次
type SourceKind string

const (
	SourceAudio SourceKind = "audio" // multipart音频上传，走语音转写
	SourceJSON  SourceKind = "json"  // JSON body，字段 text 或 question
	SourceQuery SourceKind = "query" // 查询串参数 text 或 q
)

// Transcriber 语音转写协作方
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Ingestor 把三种请求形态归一为纯文本问题
// 归一结果为空串表示"没听清/缺字段"，由调用方兜底，不作为错误处理
type Ingestor struct {
	transcriber Transcriber
}

func NewIngestor(transcriber Transcriber) *Ingestor {
	return &Ingestor{transcriber: transcriber}
}

// Resolve 根据Content-Type判定载荷形态
func Resolve(contentType string) SourceKind {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return SourceAudio
	case mediaType == "application/json":
		return SourceJSON
	default:
		return SourceQuery
	}
}

// ExtractQuery 从HTTP请求中提取纯文本问题
func (i *Ingestor) ExtractQuery(ctx context.Context, r *ghttp.Request) (string, error) {
	switch Resolve(r.Header.Get("Content-Type")) {
	case SourceAudio:
		return i.fromMultipart(ctx, r)
	case SourceJSON:
		return FromJSONBody(r.GetBody())
	default:
		return FromQueryParams(r.Get("text").String(), r.Get("q").String()), nil
	}
}

// fromMultipart 处理multipart上传：优先音频文件，其次表单文本字段
func (i *Ingestor) fromMultipart(ctx context.Context, r *ghttp.Request) (string, error) {
	file := r.GetUploadFile("audio")
	if file == nil {
		file = r.GetUploadFile("file")
	}
	if file == nil {
		// 没有音频时multipart里也可能直接带文本字段
		return FromQueryParams(r.Get("text").String(), r.Get("q").String()), nil
	}

	f, err := file.Open()
	if err != nil {
		return "", errors.Newf(errors.ErrInvalidParameter, "failed to open uploaded audio: %v", err)
	}
	defer f.Close()

	return i.FromAudio(ctx, file.Filename, f)
}

// FromAudio 转写音频流并裁剪空白；空转写结果是合法的"没听清"
func (i *Ingestor) FromAudio(ctx context.Context, filename string, audio io.Reader) (string, error) {
	text, err := i.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// FromJSONBody 从JSON body提取问题，字段 text 优先，question 兜底
func FromJSONBody(body []byte) (string, error) {
	if len(body) == 0 {
		return "", nil
	}

	var payload struct {
		Text     string `json:"text"`
		Question string `json:"question"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return "", errors.Newf(errors.ErrInvalidParameter, "invalid JSON body: %v", err)
	}

	if text := strings.TrimSpace(payload.Text); text != "" {
		return text, nil
	}
	return strings.TrimSpace(payload.Question), nil
}

// FromQueryParams 查询串参数 text 优先，q 兜底
func FromQueryParams(text, q string) string {
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return strings.TrimSpace(q)
}
