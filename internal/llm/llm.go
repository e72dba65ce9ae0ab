package llm

import "context"

// Request 描述一次对话补全的输入。
type Request struct {
	SystemPrompt string
	UserMessage  string
}

// Response 是大模型生成的回复。
type Response struct {
	Text  string
	Model string
}

// Client 定义了调用大模型的统一接口。
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
