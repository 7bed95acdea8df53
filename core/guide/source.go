package guide

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/stayline/guestqa/core/errors"
)

// SourceConfig 接口，用于提取内容源配置
type SourceConfig interface {
	GetSourceBaseURL() string
	GetSourceAPIKey() string
}

// Source 内容管理平台客户端，guest guide 条目的唯一来源
type Source struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// entriesResponse 内容源的条目列表响应
type entriesResponse struct {
	Items []rawRecord `json:"items"`
}

func NewSource(ctx context.Context, conf SourceConfig) (*Source, error) {
	baseURL := conf.GetSourceBaseURL()
	apiKey := conf.GetSourceAPIKey()

	if baseURL == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "guide baseURL is required")
	}
	if apiKey == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "guide apiKey is required")
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 20 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
		},
	}

	return &Source{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

// FetchEntries 拉取全部指南条目
// 空答案/空问题的记录在映射阶段丢弃；网络、认证或响应格式问题统一上报 ErrSourceUnavailable
func (s *Source) FetchEntries(ctx context.Context) ([]Entry, error) {
	url := s.baseURL + "/entries"
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "failed to reach content source: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "content source returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "failed to read response: %v", err)
	}

	var entriesResp entriesResponse
	if err := sonic.Unmarshal(body, &entriesResp); err != nil {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "malformed content source response: %v", err)
	}

	entries := make([]Entry, 0, len(entriesResp.Items))
	for _, rec := range entriesResp.Items {
		if entry, ok := mapEntry(ctx, rec); ok {
			entries = append(entries, entry)
		}
	}

	g.Log().Infof(ctx, "fetched %d guide entries from content source (%d raw records)", len(entries), len(entriesResp.Items))
	return entries, nil
}
