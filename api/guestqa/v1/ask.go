package v1

import (
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// AskReq 提问请求
// 同一端点接受三种载荷，按声明的Content-Type分发，见 core/ingest：
//   - multipart音频上传（字段 audio 或 file），走语音转写
//   - JSON body，字段 text 或 question
//   - 查询串参数 text 或 q
//
// 载荷不走参数绑定，由controller交给ingestor解析
type AskReq struct {
	g.Meta `path:"/v1/ask" method:"post,get" tags:"guestqa" summary:"Ask the guest guide a question"`
}

// AskRes 提问响应
// 降级状态（空指南/无匹配/没听清）同样走成功通道，text为固定话术
type AskRes struct {
	g.Meta     `mime:"application/json"`
	Text       string             `json:"text"`
	State      string             `json:"state"` // answered / guide_empty / no_match / empty_query
	References []*schema.Document `json:"references,omitempty"`
}

// GuideRefreshReq 强制失效指南与向量两级缓存并立即重新拉取
type GuideRefreshReq struct {
	g.Meta `path:"/v1/guide/refresh" method:"post" tags:"guestqa" summary:"Force refresh of the guide caches"`
}

type GuideRefreshRes struct {
	g.Meta     `mime:"application/json"`
	EntryCount int `json:"entry_count"`
}

// HealthzReq 存活探针
type HealthzReq struct {
	g.Meta `path:"/v1/healthz" method:"get" tags:"guestqa" summary:"Liveness and cache ages"`
}

type HealthzRes struct {
	g.Meta       `mime:"application/json"`
	Status       string `json:"status"`
	GuideAgeSec  int64  `json:"guide_age_sec"`  // -1 表示尚未加载
	VectorAgeSec int64  `json:"vector_age_sec"` // -1 表示尚未生成
}
