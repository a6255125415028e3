package fetchers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
)

func TestDocumentStatus(t *testing.T) {
	const mainFrame = proto.PageFrameID("MAIN")

	tests := []struct {
		name       string
		event      *proto.NetworkResponseReceived
		wantStatus int
		wantOK     bool
	}{
		{
			name: "主框架文档",
			event: &proto.NetworkResponseReceived{
				Type: proto.NetworkResourceTypeDocument, FrameID: mainFrame,
				Response: &proto.NetworkResponse{Status: 404},
			},
			wantStatus: 404,
			wantOK:     true,
		},
		{
			name: "iframe文档被忽略",
			event: &proto.NetworkResponseReceived{
				Type: proto.NetworkResourceTypeDocument, FrameID: "AD",
				Response: &proto.NetworkResponse{Status: 200},
			},
		},
		{
			name: "脚本资源被忽略",
			event: &proto.NetworkResponseReceived{
				Type: proto.NetworkResourceTypeScript, FrameID: mainFrame,
				Response: &proto.NetworkResponse{Status: 500},
			},
		},
		{
			name:  "缺少响应",
			event: &proto.NetworkResponseReceived{Type: proto.NetworkResourceTypeDocument, FrameID: mainFrame},
		},
		{name: "nil事件"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := documentStatus(tt.event, mainFrame)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, status)
		})
	}

	t.Run("未知主框架时接受任意文档", func(t *testing.T) {
		status, ok := documentStatus(&proto.NetworkResponseReceived{
			Type: proto.NetworkResourceTypeDocument, FrameID: "X",
			Response: &proto.NetworkResponse{Status: 200},
		}, "")
		assert.True(t, ok)
		assert.Equal(t, 200, status)
	})
}

func TestCheckDocumentStatus(t *testing.T) {
	for _, status := range []int{0, 200, 203, 299} {
		assert.NoError(t, checkDocumentStatus("https://news.example/", status), "status=%d", status)
	}

	err := checkDocumentStatus("https://news.example/", 404)
	var se *StatusError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, 404, se.StatusCode)
		assert.False(t, retryable(err), "404不重试")
	}

	err = checkDocumentStatus("https://news.example/", 503)
	assert.True(t, retryable(err), "503应重试")
}

func TestRetryable_NonRetryableSentinels(t *testing.T) {
	assert.False(t, retryable(fmt.Errorf("启动前检查: %w", ErrResourcesExhausted)))
	assert.False(t, retryable(fmt.Errorf("x: %w", ErrNotHTML)))
	assert.False(t, retryable(context.Canceled))
	assert.True(t, retryable(errors.New("navigation failed")))
}

func TestNewDynamicFetcher_Defaults(t *testing.T) {
	df := NewDynamicFetcher(Options{Retries: -1}, nil, nil)

	assert.Equal(t, 20*time.Second, df.opts.Timeout)
	assert.Equal(t, time.Second, df.opts.BackoffBase)
	assert.Equal(t, 60*time.Second, df.opts.MaxBackoff)
	assert.Equal(t, 0, df.opts.Retries)
	assert.NoError(t, df.Close(), "未启动浏览器时关闭不报错")
}
