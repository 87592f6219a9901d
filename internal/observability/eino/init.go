// Package eino 将 Eino 组件回调接入指标、追踪与日志
package eino

import (
	"sync/atomic"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
)

var registered atomic.Bool

// Init 注册全局回调，重复调用无副作用
func Init() {
	if !registered.CompareAndSwap(false, true) {
		return
	}
	einocallbacks.AppendGlobalHandlers(newGlobalHandler())
}

// newGlobalHandler 覆盖生成链路上的两类组件：模板渲染与模型调用
func newGlobalHandler() einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		Prompt(newPromptCallbackHandler()).
		ChatModel(newChatModelCallbackHandler()).
		Handler()
}
