package guide

import (
	"context"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
)

// Entry 指南条目（knowledge base 的最小单元）
// Answer 与 Patterns 永远非空：映射阶段丢弃空答案和完全没有可匹配文本的原始记录
type Entry struct {
	ID       string   // 内容源分配的稳定唯一ID
	Question string   // 标准问法，内容源漏填时可能为空
	Patterns []string // 问法及关键词变体，保持源顺序（Question 非空时以其开头）
	Answer   string   // 纯文本答案
}

// rawRecord 内容源返回的原始记录
type rawRecord struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Fields map[string]interface{} `json:"fields"`
}

// patternAliases 关键词字段的候选拼写
// 内容平台的字段命名不稳定，按固定优先级逐个尝试，全部缺失则只用问题本身
// 拼写漂移只改这一处
var patternAliases = []string{"keywords", "keyWords", "questionVariations", "variations"}

// mapEntry 将原始记录归一为 Entry
// 返回 false 表示记录不合法（空答案，或问题与关键词全空没有可匹配文本），应丢弃
// 问题漏填但关键词齐全的记录照常保留，只用关键词做匹配
func mapEntry(ctx context.Context, rec rawRecord) (Entry, bool) {
	question := strings.TrimSpace(stringField(rec.Fields, "question"))
	answer := strings.TrimSpace(extractAnswer(rec.Fields["answer"]))

	if answer == "" {
		g.Log().Debugf(ctx, "dropping guide record %s: empty answer", rec.Sys.ID)
		return Entry{}, false
	}

	patterns := extractPatterns(rec.Fields)
	if question != "" {
		patterns = append([]string{question}, patterns...)
	}
	if len(patterns) == 0 {
		g.Log().Debugf(ctx, "dropping guide record %s: no matchable text", rec.Sys.ID)
		return Entry{}, false
	}

	return Entry{
		ID:       rec.Sys.ID,
		Question: question,
		Patterns: patterns,
		Answer:   answer,
	}, true
}

// extractPatterns 按 patternAliases 的优先级取第一个非空的关键词字段
func extractPatterns(fields map[string]interface{}) []string {
	for _, alias := range patternAliases {
		raw, ok := fields[alias]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case []interface{}:
			var patterns []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					if s = strings.TrimSpace(s); s != "" {
						patterns = append(patterns, s)
					}
				}
			}
			if len(patterns) > 0 {
				return patterns
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

// extractAnswer 提取答案的纯文本表示
// 内容源的富文本字段可能是纯字符串，也可能是嵌套节点树
func extractAnswer(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]interface{}:
		var sb strings.Builder
		flattenRichText(v, &sb)
		return sb.String()
	default:
		return ""
	}
}

// flattenRichText 深度优先收集富文本节点中的 value 文本
func flattenRichText(node interface{}, sb *strings.Builder) {
	switch v := node.(type) {
	case map[string]interface{}:
		if value, ok := v["value"].(string); ok {
			sb.WriteString(value)
		}
		if content, ok := v["content"].([]interface{}); ok {
			for _, child := range content {
				flattenRichText(child, sb)
			}
		}
	case []interface{}:
		for _, child := range v {
			flattenRichText(child, sb)
		}
	}
}

func stringField(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
