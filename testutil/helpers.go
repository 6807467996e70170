// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的测试辅助函数和断言
//
// 使用方法:
//
//	testutil.AssertJSONEqual(t, expected, actual)
//	testutil.AssertInOrder(t, prompt, "# General Instructions", "# Data Structure")
//
// =============================================================================
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestContextWithTimeout 返回带自定义超时的测试上下文
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// =============================================================================
// 🔍 断言辅助
// =============================================================================

// AssertJSONEqual 断言两个值的 JSON 表示在语义上相等（忽略空白与键顺序）。
// string 与 []byte 参数按 JSON 文本处理，其余值先序列化。
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()
	assert.JSONEq(t, jsonText(t, expected), jsonText(t, actual))
}

func jsonText(t *testing.T, v any) string {
	t.Helper()
	switch text := v.(type) {
	case string:
		return text
	case []byte:
		return string(text)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal %T: %v", v, err)
	}
	return string(data)
}

// AssertContains 断言字符串包含子串
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

// AssertNotContains 断言字符串不包含子串
func AssertNotContains(t *testing.T, s, substr string) {
	t.Helper()
	if strings.Contains(s, substr) {
		t.Errorf("expected %q to not contain %q", s, substr)
	}
}

// AssertInOrder 断言各子串按给定顺序出现在 s 中
func AssertInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	offset := 0
	for _, part := range parts {
		idx := strings.Index(s[offset:], part)
		if idx < 0 {
			t.Errorf("expected %q after offset %d in:\n%s", part, offset, s)
			return
		}
		offset += idx + len(part)
	}
}

// =============================================================================
// 📜 日志辅助
// =============================================================================

// NewObservedLogger 返回记录到内存的 zap 日志及其观察者
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// =============================================================================
// 🔧 测试数据辅助
// =============================================================================

// MustJSON 将值转换为 JSON 字符串，失败时 panic
func MustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// MustParseJSON 解析 JSON 字符串，失败时 panic
func MustParseJSON[T any](s string) T {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

// LongText 返回 n 个字符的文本，字符按 a-z 循环
func LongText(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

// CopyRecord 浅拷贝一条记录
func CopyRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	copied := make(map[string]any, len(record))
	for k, v := range record {
		copied[k] = v
	}
	return copied
}
