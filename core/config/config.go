package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// 核心参数默认值
const (
	DefaultTopK           = 3
	DefaultScoreThreshold = 0.82
	DefaultGuideCacheTTL  = 300 * time.Second  // 指南条目缓存
	DefaultVectorCacheTTL = 1800 * time.Second // 向量缓存
	DefaultMaxAudioSize   = 15 << 20           // 音频上传上限: 15MB
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证内容源配置
	guideBaseURL := g.Cfg().MustGet(ctx, "guide.baseURL", "").String()
	guideAPIKey := g.Cfg().MustGet(ctx, "guide.apiKey", "").String()
	if guideBaseURL == "" {
		missingConfigs = append(missingConfigs, "guide.baseURL")
	}
	if guideAPIKey == "" {
		missingConfigs = append(missingConfigs, "guide.apiKey")
	}

	// 验证 Embedding 配置
	embeddingAPIKey := g.Cfg().MustGet(ctx, "embedding.apiKey", "").String()
	embeddingBaseURL := g.Cfg().MustGet(ctx, "embedding.baseURL", "").String()
	embeddingModel := g.Cfg().MustGet(ctx, "embedding.model", "").String()

	if embeddingAPIKey == "" {
		missingConfigs = append(missingConfigs, "embedding.apiKey")
	}
	if embeddingBaseURL == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}
	if embeddingModel == "" {
		missingConfigs = append(missingConfigs, "embedding.model")
	}

	// 转写配置缺省时回落到 embedding 同一服务商
	if g.Cfg().MustGet(ctx, "transcription.baseURL", "").String() == "" {
		warnings = append(warnings, "transcription.baseURL is not set, falling back to embedding.baseURL")
	}
	if g.Cfg().MustGet(ctx, "transcription.apiKey", "").String() == "" {
		warnings = append(warnings, "transcription.apiKey is not set, falling back to embedding.apiKey")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")

	return nil
}

// GuideConfig 问答服务全量配置
type GuideConfig struct {
	// 内容源（guest guide 的唯一来源）
	SourceBaseURL string
	SourceAPIKey  string
	GuideCacheTTL time.Duration

	// embedding 时使用
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	VectorCacheTTL time.Duration

	// 检索参数
	TopK           int     // 默认返回结果数量（默认 3）
	ScoreThreshold float64 // 相似度置信阈值（默认 0.82），低于此值走固定兜底话术

	// 语音转写
	TranscriptionBaseURL string
	TranscriptionAPIKey  string
	TranscriptionModel   string

	// 音频上传大小上限（字节）
	MaxAudioSize int64
}

// Load 从 g.Cfg 读取配置并填充默认值
func Load(ctx context.Context) *GuideConfig {
	conf := &GuideConfig{
		SourceBaseURL: g.Cfg().MustGet(ctx, "guide.baseURL", "").String(),
		SourceAPIKey:  g.Cfg().MustGet(ctx, "guide.apiKey", "").String(),
		GuideCacheTTL: time.Duration(g.Cfg().MustGet(ctx, "guide.cacheTTL", int(DefaultGuideCacheTTL/time.Second)).Int()) * time.Second,

		APIKey:         g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
		BaseURL:        g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
		EmbeddingModel: g.Cfg().MustGet(ctx, "embedding.model", "").String(),
		VectorCacheTTL: time.Duration(g.Cfg().MustGet(ctx, "vector.cacheTTL", int(DefaultVectorCacheTTL/time.Second)).Int()) * time.Second,

		TopK:           g.Cfg().MustGet(ctx, "retrieval.topK", DefaultTopK).Int(),
		ScoreThreshold: g.Cfg().MustGet(ctx, "retrieval.scoreThreshold", DefaultScoreThreshold).Float64(),

		TranscriptionBaseURL: g.Cfg().MustGet(ctx, "transcription.baseURL", "").String(),
		TranscriptionAPIKey:  g.Cfg().MustGet(ctx, "transcription.apiKey", "").String(),
		TranscriptionModel:   g.Cfg().MustGet(ctx, "transcription.model", "whisper-1").String(),

		MaxAudioSize: g.Cfg().MustGet(ctx, "ask.maxAudioSize", DefaultMaxAudioSize).Int64(),
	}

	// 转写服务缺省复用 embedding 服务商
	if conf.TranscriptionBaseURL == "" {
		conf.TranscriptionBaseURL = conf.BaseURL
	}
	if conf.TranscriptionAPIKey == "" {
		conf.TranscriptionAPIKey = conf.APIKey
	}

	if conf.TopK <= 0 {
		conf.TopK = DefaultTopK
	}
	if conf.ScoreThreshold <= 0 {
		conf.ScoreThreshold = DefaultScoreThreshold
	}

	return conf
}

// GuideConfig 实现 embedding config 接口
func (c *GuideConfig) GetAPIKey() string         { return c.APIKey }
func (c *GuideConfig) GetBaseURL() string        { return c.BaseURL }
func (c *GuideConfig) GetEmbeddingModel() string { return c.EmbeddingModel }

// GuideConfig 实现内容源 config 接口
func (c *GuideConfig) GetSourceBaseURL() string { return c.SourceBaseURL }
func (c *GuideConfig) GetSourceAPIKey() string  { return c.SourceAPIKey }

// GuideConfig 实现转写 config 接口
func (c *GuideConfig) GetTranscriptionBaseURL() string { return c.TranscriptionBaseURL }
func (c *GuideConfig) GetTranscriptionAPIKey() string  { return c.TranscriptionAPIKey }
func (c *GuideConfig) GetTranscriptionModel() string   { return c.TranscriptionModel }

// GuideConfig 实现检索 config 接口
func (c *GuideConfig) GetTopK() int               { return c.TopK }
func (c *GuideConfig) GetScoreThreshold() float64 { return c.ScoreThreshold }
