package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/stayline/guestqa/core/errors"
)

// Config 接口，用于提取转写配置
type Config interface {
	GetTranscriptionAPIKey() string
	GetTranscriptionBaseURL() string
	GetTranscriptionModel() string
}

// Client Whisper风格的语音转写客户端（OpenAI兼容 /audio/transcriptions）
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// transcriptionResponse 转写API响应结构
type transcriptionResponse struct {
	Text string `json:"text"`
}

// errorResponse API错误响应
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(ctx context.Context, conf Config) (*Client, error) {
	apiKey := conf.GetTranscriptionAPIKey()
	baseURL := conf.GetTranscriptionBaseURL()
	model := conf.GetTranscriptionModel()

	if apiKey == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "transcription apiKey is required")
	}
	if baseURL == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "transcription baseURL is required")
	}
	if model == "" {
		model = "whisper-1"
	}

	// 音频体积大，转写慢，超时给得比embedding宽
	httpClient := &http.Client{
		Timeout: 3 * time.Minute,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   30 * time.Second,
			ResponseHeaderTimeout: 2 * time.Minute,
			ExpectContinueTimeout: 1 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
		},
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// Transcribe 将音频流转写为文本
// 听不清的音频转写服务会返回空文本，这是合法结果而非错误，由调用方兜底
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to build multipart body: %v", err)
	}
	if _, err = io.Copy(part, audio); err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to read audio stream: %v", err)
	}
	if err = writer.WriteField("model", c.model); err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to build multipart body: %v", err)
	}
	if err = writer.Close(); err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to finalize multipart body: %v", err)
	}

	url := c.baseURL + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return "", errors.Newf(errors.ErrTranscriptionFailed, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return "", errors.Newf(errors.ErrTranscriptionFailed, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var transResp transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&transResp); err != nil {
		return "", errors.Newf(errors.ErrTranscriptionFailed, "failed to decode response: %v", err)
	}

	return strings.TrimSpace(transResp.Text), nil
}
