package guide

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, fields map[string]interface{}) rawRecord {
	var rec rawRecord
	rec.Sys.ID = id
	rec.Fields = fields
	return rec
}

func TestMapEntryBasic(t *testing.T) {
	ctx := context.Background()

	entry, ok := mapEntry(ctx, record("e1", map[string]interface{}{
		"question": "When is checkout?",
		"keywords": []interface{}{"checkout time", "check out"},
		"answer":   "Checkout is at 11am.",
	}))
	require.True(t, ok)

	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "When is checkout?", entry.Question)
	assert.Equal(t, "Checkout is at 11am.", entry.Answer)
	// 问题本身必须排在变体之前，顺序保持源顺序
	assert.Equal(t, []string{"When is checkout?", "checkout time", "check out"}, entry.Patterns)
}

func TestMapEntryDropsEmptyAnswer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		answer interface{}
	}{
		{name: "missing answer", answer: nil},
		{name: "empty string", answer: ""},
		{name: "whitespace only", answer: "   "},
		{name: "rich text with no values", answer: map[string]interface{}{"content": []interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := mapEntry(ctx, record("e1", map[string]interface{}{
				"question": "Anything?",
				"answer":   tt.answer,
			}))
			assert.False(t, ok)
		})
	}
}

func TestMapEntryBlankQuestionKeepsKeywords(t *testing.T) {
	ctx := context.Background()

	// 问题漏填但关键词齐全：保留，只用关键词做匹配
	entry, ok := mapEntry(ctx, record("e1", map[string]interface{}{
		"keywords": []interface{}{"late checkout", "extend checkout"},
		"answer":   "Late checkout until 1pm is available on request.",
	}))
	require.True(t, ok)

	assert.Equal(t, "", entry.Question)
	assert.Equal(t, []string{"late checkout", "extend checkout"}, entry.Patterns)
	assert.Equal(t, "Late checkout until 1pm is available on request.", entry.Answer)
}

func TestMapEntryDropsNoMatchableText(t *testing.T) {
	ctx := context.Background()

	// 问题与关键词全空：没有可匹配文本，丢弃
	_, ok := mapEntry(ctx, record("e1", map[string]interface{}{
		"answer": "An answer nobody can ask for.",
	}))
	assert.False(t, ok)

	_, ok = mapEntry(ctx, record("e2", map[string]interface{}{
		"question": "   ",
		"keywords": []interface{}{},
		"answer":   "Still unreachable.",
	}))
	assert.False(t, ok)
}

func TestExtractPatternsAliasPriority(t *testing.T) {
	// keywords 优先级最高，即使其他别名同时存在
	patterns := extractPatterns(map[string]interface{}{
		"variations": []interface{}{"low priority"},
		"keywords":   []interface{}{"high priority"},
	})
	assert.Equal(t, []string{"high priority"}, patterns)

	// keywords 缺失时按序回落
	patterns = extractPatterns(map[string]interface{}{
		"keyWords": []interface{}{"camel case spelling"},
	})
	assert.Equal(t, []string{"camel case spelling"}, patterns)

	patterns = extractPatterns(map[string]interface{}{
		"questionVariations": []interface{}{"v1", "v2"},
	})
	assert.Equal(t, []string{"v1", "v2"}, patterns)

	// 全部缺失返回nil
	assert.Nil(t, extractPatterns(map[string]interface{}{}))
}

func TestExtractPatternsTolerantShapes(t *testing.T) {
	// 单个字符串也接受
	patterns := extractPatterns(map[string]interface{}{
		"keywords": "single keyword",
	})
	assert.Equal(t, []string{"single keyword"}, patterns)

	// 数组里的非字符串与空串被丢弃
	patterns = extractPatterns(map[string]interface{}{
		"keywords": []interface{}{"ok", 42, "", "  also ok  "},
	})
	assert.Equal(t, []string{"ok", "also ok"}, patterns)

	// 空数组视为缺失，继续尝试下一个别名
	patterns = extractPatterns(map[string]interface{}{
		"keywords":   []interface{}{},
		"variations": []interface{}{"fallback"},
	})
	assert.Equal(t, []string{"fallback"}, patterns)
}

func TestExtractAnswerPlainString(t *testing.T) {
	assert.Equal(t, "Breakfast is 7-10am.", extractAnswer("Breakfast is 7-10am."))
}

func TestExtractAnswerRichText(t *testing.T) {
	// 内容平台富文本：嵌套节点树，叶子节点的value按文档顺序收集
	richText := map[string]interface{}{
		"nodeType": "document",
		"content": []interface{}{
			map[string]interface{}{
				"nodeType": "paragraph",
				"content": []interface{}{
					map[string]interface{}{"nodeType": "text", "value": "The pool is open "},
					map[string]interface{}{"nodeType": "text", "value": "from 8am to 8pm."},
				},
			},
		},
	}
	assert.Equal(t, "The pool is open from 8am to 8pm.", extractAnswer(richText))
}

func TestExtractAnswerUnknownShape(t *testing.T) {
	assert.Equal(t, "", extractAnswer(12345))
	assert.Equal(t, "", extractAnswer(nil))
}
