package vector

import (
	"context"
	"strings"
	"sync"
	"time"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"

	"github.com/stayline/guestqa/core/errors"
	"github.com/stayline/guestqa/core/guide"
)

// Vector 单个指南条目的embedding向量
type Vector struct {
	EntryID   string    // 对应 guide.Entry.ID
	Embedding []float64 // 同一代内维度一致
}

// State 一代向量缓存
// 只会被整体替换，绝不增量更新：内容源的条目ID不携带版本信号，
// 增量失效有悄悄提供陈旧向量的风险，全量重算用embedding成本换正确性
type State struct {
	Generation  string // 本代uuid，用于日志关联重算周期
	GeneratedAt time.Time
	ModelID     string
	EntryCount  int
	Dimension   int
	Vectors     []Vector
}

// Cache 向量缓存
// 失效条件：无缓存 / 模型变化 / 条目数变化 / 超过TTL
// 条目数与指南缓存的条目数不一致是最主要的失效信号，不只依赖时钟
type Cache struct {
	mu       sync.Mutex
	embedder einoembedding.Embedder
	ttl      time.Duration
	now      func() time.Time // 可注入的时钟，测试用

	state *State
}

func NewCache(embedder einoembedding.Embedder, ttl time.Duration) *Cache {
	return &Cache{
		embedder: embedder,
		ttl:      ttl,
		now:      time.Now,
	}
}

// EmbeddingInput 构造条目的embedding输入文本
// 问法变体以 " ; " 连接，与答案之间空行分隔
func EmbeddingInput(e guide.Entry) string {
	return strings.Join(e.Patterns, " ; ") + "\n\n" + e.Answer
}

// Vectors 返回当前向量代，必要时整体重算
// 任一条目embedding失败则整体中止，旧的一代保持不动，错误上抛等下次重试
func (c *Cache) Vectors(ctx context.Context, entries []guide.Entry, modelID string) (*State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh(len(entries), modelID) {
		return c.state, nil
	}

	generation := uuid.New().String()
	g.Log().Infof(ctx, "recomputing vector cache: generation=%s model=%s entries=%d", generation, modelID, len(entries))

	vectors := make([]Vector, 0, len(entries))
	dimension := 0
	// 逐条顺序调用，尊重embedding服务的限流
	for _, entry := range entries {
		embeddings, err := c.embedder.EmbedStrings(ctx, []string{EmbeddingInput(entry)})
		if err != nil {
			g.Log().Errorf(ctx, "vector recompute aborted at entry %s (generation=%s): %v", entry.ID, generation, err)
			return nil, err
		}
		if len(embeddings) != 1 {
			return nil, errors.Newf(errors.ErrEmbeddingFailed, "expected 1 embedding for entry %s, got %d", entry.ID, len(embeddings))
		}
		emb := embeddings[0]
		if dimension == 0 {
			dimension = len(emb)
		} else if len(emb) != dimension {
			// 同一代内维度必须一致，不一致说明上游模型错配
			return nil, errors.Newf(errors.ErrDimensionMismatch, "entry %s embedded with dimension %d, generation %s uses %d", entry.ID, len(emb), generation, dimension)
		}
		vectors = append(vectors, Vector{EntryID: entry.ID, Embedding: emb})
	}

	c.state = &State{
		Generation:  generation,
		GeneratedAt: c.now(),
		ModelID:     modelID,
		EntryCount:  len(entries),
		Dimension:   dimension,
		Vectors:     vectors,
	}

	g.Log().Infof(ctx, "vector cache generation %s ready: %d vectors, dimension %d", generation, len(vectors), dimension)
	return c.state, nil
}

// fresh 判断当前一代是否仍然可用，调用方必须持锁
func (c *Cache) fresh(entryCount int, modelID string) bool {
	if c.state == nil {
		return false
	}
	if c.state.ModelID != modelID {
		return false
	}
	if c.state.EntryCount != entryCount {
		return false
	}
	return c.now().Sub(c.state.GeneratedAt) <= c.ttl
}

// Invalidate 强制下次调用整体重算
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
}

// Age 返回当前一代向量的年龄；尚未生成时 ok 为 false
func (c *Cache) Age() (age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return 0, false
	}
	return c.now().Sub(c.state.GeneratedAt), true
}
