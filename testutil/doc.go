// Copyright 2026 ExtractFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 ExtractFlow 测试的共享工具和辅助函数。

# 概述

testutil 包为整个项目的单元测试提供统一的辅助能力，
避免各包重复实现相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertJSONEqual / AssertContains / AssertNotContains /
    AssertInOrder
  - 数据工具: MustJSON / MustParseJSON / LongText / CopyRecord，
    简化测试数据构造
  - 观测辅助: NewObservedLogger 返回 zap 观察者日志，用于断言截断等事件

# 子包

  - testutil/fixtures: 测试数据工厂，提供发票 schema（属性列表与 wire JSON）、
    Agent 列表样例与候选记录批次

# 使用示例

	ctx := testutil.TestContext(t)
	logger, logs := testutil.NewObservedLogger(zapcore.DebugLevel)
	c := compiler.New(compiler.WithLogger(logger))
	compiled, err := c.CompileProperties(ctx, fixtures.InvoiceProperties())
*/
package testutil
