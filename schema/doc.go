// Copyright (c) ExtractFlow Authors.
// Licensed under the MIT License.

/*
Package schema 定义 wire 格式的 schema 树以及进入编译管线前的结构校验。

# 概述

wire 树是作者 schema 的规范序列化形式，也是编译器的工作表示。它被建模为
封闭的标签变体：每个节点恰好是 *Primitive、*Array、*Object 或 *Opaque
之一，消费方对 Kind 做 switch，而不是探测可选键。

# 核心类型

  - Node         — 封闭节点接口（Kind / TypeName / Meta）
  - Presentation — 每个节点携带的展示元数据（title、description、importance、
    extractionInstructions、displayName、examples、order）
  - Properties   — 按插入顺序保存的 name → Node 映射
  - OrderedMap   — 保序的通用 JSON/YAML 对象值，解码与规范编码共用
  - ShapeError / MalformedNodeError — SCHEMA_SHAPE 与 MALFORMED_WIRE_NODE

# 主要能力

  - CheckShape：元 schema 校验，收集全部违规位置而非只报第一个
  - Parse / ParseYAML / Decode：从 JSON、YAML 或通用值构建 wire 树，保持属性顺序
  - Marshal / MarshalIndent：稳定、与 map 迭代顺序无关的规范编码
  - Clone：深拷贝，供编译产物保持不可变
*/
package schema
