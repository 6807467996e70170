// Copyright 2026 ExtractFlow Authors
// Use of this source code is governed by the project license.

/*
# 概述

包 declarative 提供与编译后 schema 一同保存的后处理 Agent 列表的
校验、排序与加载能力。

Agent 列表来自 JSON/YAML 等外部输入，形状不可信，因此 ValidateList
接收任意值，逐项检查并在第一个违规处返回描述性错误（快速失败）。
校验通过后由 Sort 过滤禁用项并按 order 升序给出执行顺序；
Sort 不会重新校验。

# 核心接口

  - AgentLoader — 从文件或字节流加载 Agent 列表，支持自动格式检测
  - Planner — 组合校验与排序，并记录日志与指标

# 主要类型

  - AgentDefinition — 单个 Agent：name、prompt、order、enabled、description
  - AgentListError — 带 Reason 与下标的校验错误

# 典型用法

	loader := declarative.NewYAMLLoader()
	defs, err := loader.LoadFile("agents.yaml")

	planner := declarative.NewPlanner(logger, collector)
	ordered, err := planner.Plan(raw)

# 设计约束

  - 最多 10 个 Agent；name ≤100 字符，prompt ≤5000 字符，description ≤500 字符
  - name 与 order 在列表内唯一，order 为正整数
  - 支持 YAML (.yaml/.yml) 和 JSON (.json) 两种格式
*/
package declarative
