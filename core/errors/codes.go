package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1003 // 内部错误
	ErrNotFound         ErrCode = 1004 // 资源未找到
	ErrOperationFailed  ErrCode = 1006 // 操作失败

	// 外部协作方 2100-2199
	ErrSourceUnavailable   ErrCode = 2101 // 内容源拉取失败（网络/认证/响应格式）
	ErrEmbeddingFailed     ErrCode = 2102 // Embedding调用失败
	ErrTranscriptionFailed ErrCode = 2103 // 语音转写失败
	ErrDimensionMismatch   ErrCode = 2104 // 向量维度不一致，说明embedding模型错配
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
// 协作方失败一律按服务端错误处理；降级状态不走错误通道，见 core/retrieval
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 400
	case ErrNotFound:
		return 404
	case ErrSourceUnavailable, ErrEmbeddingFailed, ErrTranscriptionFailed:
		return 502
	default:
		return 500
	}
}
