// Copyright (c) ExtractFlow Authors.
// Licensed under the MIT License.

/*
Package prompt 将编译后的 schema 组装成面向模型的抽取提示词。

# 概述

Composer 按固定顺序输出以下段落，段落之间以空行分隔：

  - "# General Instructions"：通用说明，默认上限 3000 字符
  - "# Data Structure"：结构视图（默认）或指导视图，缩进 JSON
  - "# Field-Specific Extraction Guidance"：逐字段说明，
    每个字段一个 "## <名称>" 小节

小节顺序与属性顺序一致，不依赖 map 迭代顺序。
这些标记是下游消费方依赖的文本契约，必须逐字保留。
*/
package prompt
