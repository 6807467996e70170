// Copyright 2026 ExtractFlow Authors
// Use of this source code is governed by the project license.

/*
# 概述

包 gate 在候选记录进入 Agent 流水线之前对其做结构筛查，
把一批记录划分为 valid 与 invalid 两部分。

# 规则

  - 记录必须是非 nil 的 map[string]any，且至少有一个字段
  - 提供编译后 schema 时，顶层 required 字段必须存在且非 null，
    已出现的顶层字段类型必须与声明一致（可选字段的 null 豁免）
  - WithDeepValidation 打开后改用完整的递归校验器

被拒绝的记录不会被丢弃：输出其浅拷贝（非对象时为空对象），
并追加 _validationError 与 _skipAgents: true；原记录不被修改。
输出保持输入顺序，错误以 RecordError 形式并行记录。

# 典型用法

	g := gate.New(gate.WithLogger(logger), gate.WithConcurrency(4))
	result := g.Partition(ctx, batch, compiled)
	fmt.Println(result.Summary())
*/
package gate
