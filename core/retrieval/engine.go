package retrieval

import (
	"context"
	"sort"
	"strings"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/stayline/guestqa/core/errors"
	"github.com/stayline/guestqa/core/guide"
	"github.com/stayline/guestqa/core/similarity"
	"github.com/stayline/guestqa/core/vector"
)

// ResultState 一次问答的结束状态
type ResultState string

const (
	StateAnswered   ResultState = "answered"    // 正常命中
	StateGuideEmpty ResultState = "guide_empty" // 指南为空（降级，不是错误）
	StateNoMatch    ResultState = "no_match"    // 最高分低于阈值（降级，不是错误）
	StateEmptyQuery ResultState = "empty_query" // 归一后问题为空（降级，不是错误）
)

// 降级状态的固定话术，走HTTP成功通道返回
const (
	MsgGuideEmpty = "The guest guide is empty right now. Please ask the front desk directly."
	MsgNoMatch    = "I don't have that information in the guest guide. The front desk will be happy to help."
	MsgEmptyQuery = "I couldn't catch that. Could you repeat your question?"
)

// Config 接口，检索引擎所需的配置
type Config interface {
	GetTopK() int
	GetScoreThreshold() float64
	GetEmbeddingModel() string
}

// Result 一次问答的结果
type Result struct {
	Text    string             // 最终答案文本（命中时为各条答案按分数降序以空格拼接）
	State   ResultState        //
	Matched []*schema.Document // 命中的条目，带分数，供引用展示
}

// Engine 检索引擎
// 流程：空问题短路 → 保证指南新鲜 → 空指南短路 → 保证向量新鲜 →
// 问题向量化 → 全量余弦打分 → 稳定排序取TopK → 置信阈值闸门 → 拼接答案
type Engine struct {
	guideCache  *guide.Cache
	vectorCache *vector.Cache
	embedder    einoembedding.Embedder
	conf        Config
}

func NewEngine(guideCache *guide.Cache, vectorCache *vector.Cache, embedder einoembedding.Embedder, conf Config) *Engine {
	return &Engine{
		guideCache:  guideCache,
		vectorCache: vectorCache,
		embedder:    embedder,
		conf:        conf,
	}
}

// Answer 回答一个纯文本问题
// 降级状态（空问题/空指南/无匹配）返回固定话术与成功结果；协作方失败才返回错误
func (e *Engine) Answer(ctx context.Context, query string) (*Result, error) {
	// 没听清/缺字段：固定澄清话术，不消耗任何协作方调用
	if strings.TrimSpace(query) == "" {
		return &Result{Text: MsgEmptyQuery, State: StateEmptyQuery}, nil
	}

	entries, err := e.guideCache.Entries(ctx)
	if err != nil {
		return nil, err
	}
	// 空指南短路，不消耗问题的embedding调用
	if len(entries) == 0 {
		g.Log().Infof(ctx, "guide is empty, skipping retrieval for query %q", query)
		return &Result{Text: MsgGuideEmpty, State: StateGuideEmpty}, nil
	}

	state, err := e.vectorCache.Vectors(ctx, entries, e.conf.GetEmbeddingModel())
	if err != nil {
		return nil, err
	}

	queryEmbeddings, err := e.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(queryEmbeddings) != 1 {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "expected 1 query embedding, got %d", len(queryEmbeddings))
	}
	queryVector := queryEmbeddings[0]

	type candidate struct {
		entryID string
		score   float64
	}
	candidates := make([]candidate, 0, len(state.Vectors))
	for _, v := range state.Vectors {
		score, err := similarity.Cosine(queryVector, v.Embedding)
		if err != nil {
			// 维度不一致说明模型错配，属于必须暴露的bug
			g.Log().Errorf(ctx, "scoring failed for entry %s (generation=%s): %v", v.EntryID, state.Generation, err)
			return nil, err
		}
		candidates = append(candidates, candidate{entryID: v.EntryID, score: score})
	}

	// 稳定排序：同分保持向量原顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	topK := e.conf.GetTopK()
	if topK <= 0 {
		topK = 3
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	threshold := e.conf.GetScoreThreshold()
	if len(candidates) == 0 {
		g.Log().Infof(ctx, "no candidates scored for query %q", query)
		return &Result{Text: MsgNoMatch, State: StateNoMatch}, nil
	}
	if candidates[0].score < threshold {
		g.Log().Infof(ctx, "no confident match for query %q: best score %.4f < threshold %.4f", query, candidates[0].score, threshold)
		return &Result{Text: MsgNoMatch, State: StateNoMatch}, nil
	}

	byID := make(map[string]guide.Entry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}

	// 拼接所有过阈值的TopK答案而非只取最高分，一次回答尽量带全相关事实
	var answers []string
	var matched []*schema.Document
	for _, cand := range candidates {
		if cand.score < threshold {
			continue
		}
		entry, ok := byID[cand.entryID]
		if !ok {
			// 指南与向量两级缓存刷新之间的竞争会产生陈旧ID，直接跳过
			g.Log().Debugf(ctx, "candidate %s no longer present in guide, skipping", cand.entryID)
			continue
		}
		answers = append(answers, entry.Answer)
		doc := &schema.Document{
			ID:      entry.ID,
			Content: entry.Answer,
			MetaData: map[string]interface{}{
				"question": entry.Question,
			},
		}
		doc.WithScore(cand.score)
		matched = append(matched, doc)
	}

	if len(answers) == 0 {
		return &Result{Text: MsgNoMatch, State: StateNoMatch}, nil
	}

	return &Result{
		Text:    strings.Join(answers, " "),
		State:   StateAnswered,
		Matched: matched,
	}, nil
}

// Refresh 强制失效两级缓存并立即重新拉取指南，返回新一代条目数
// 向量在下一次提问时按需重算
func (e *Engine) Refresh(ctx context.Context) (int, error) {
	e.guideCache.Invalidate()
	e.vectorCache.Invalidate()

	entries, err := e.guideCache.Entries(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// CacheAges 返回两级缓存的年龄（秒），尚未加载用 -1 表示
func (e *Engine) CacheAges() (guideAgeSec, vectorAgeSec int64) {
	guideAgeSec, vectorAgeSec = -1, -1
	if age, ok := e.guideCache.Age(); ok {
		guideAgeSec = int64(age.Seconds())
	}
	if age, ok := e.vectorCache.Age(); ok {
		vectorAgeSec = int64(age.Seconds())
	}
	return guideAgeSec, vectorAgeSec
}
