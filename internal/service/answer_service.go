package service

import (
	"context"

	"github.com/gogf/gf/v2/net/ghttp"

	v1 "github.com/stayline/guestqa/api/guestqa/v1"
	"github.com/stayline/guestqa/core/config"
	"github.com/stayline/guestqa/core/embedding"
	"github.com/stayline/guestqa/core/guide"
	"github.com/stayline/guestqa/core/ingest"
	"github.com/stayline/guestqa/core/retrieval"
	"github.com/stayline/guestqa/core/transcribe"
	"github.com/stayline/guestqa/core/vector"
)

// AnswerService 问答服务：载荷归一 + 检索
type AnswerService struct {
	ingestor *ingest.Ingestor
	engine   *retrieval.Engine
}

var answerService *AnswerService

// InitAnswerService 装配问答服务的全部协作方与缓存，启动时调用一次
func InitAnswerService(ctx context.Context) error {
	conf := config.Load(ctx)

	embedder, err := embedding.NewClient(ctx, conf)
	if err != nil {
		return err
	}
	transcriber, err := transcribe.NewClient(ctx, conf)
	if err != nil {
		return err
	}
	source, err := guide.NewSource(ctx, conf)
	if err != nil {
		return err
	}

	// 两级缓存独立计时：指南条目走短TTL，向量走长TTL，
	// 条目数不一致时向量缓存自行整体重算
	guideCache := guide.NewCache(source.FetchEntries, conf.GuideCacheTTL)
	vectorCache := vector.NewCache(embedder, conf.VectorCacheTTL)

	answerService = &AnswerService{
		ingestor: ingest.NewIngestor(transcriber),
		engine:   retrieval.NewEngine(guideCache, vectorCache, embedder, conf),
	}
	return nil
}

// GetAnswerService 获取问答服务实例
func GetAnswerService() *AnswerService {
	return answerService
}

// Ask 处理一次提问
func (s *AnswerService) Ask(ctx context.Context, r *ghttp.Request) (*v1.AskRes, error) {
	query, err := s.ingestor.ExtractQuery(ctx, r)
	if err != nil {
		return nil, err
	}

	// 空问题的澄清话术由引擎兜底
	result, err := s.engine.Answer(ctx, query)
	if err != nil {
		return nil, err
	}

	return &v1.AskRes{
		Text:       result.Text,
		State:      string(result.State),
		References: result.Matched,
	}, nil
}

// RefreshGuide 强制刷新两级缓存
func (s *AnswerService) RefreshGuide(ctx context.Context) (*v1.GuideRefreshRes, error) {
	count, err := s.engine.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return &v1.GuideRefreshRes{EntryCount: count}, nil
}

// Health 存活状态与缓存年龄
func (s *AnswerService) Health(ctx context.Context) *v1.HealthzRes {
	guideAge, vectorAge := s.engine.CacheAges()
	return &v1.HealthzRes{
		Status:       "ok",
		GuideAgeSec:  guideAge,
		VectorAgeSec: vectorAge,
	}
}
