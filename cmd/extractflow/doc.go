// Copyright 2026 ExtractFlow Authors
// Use of this source code is governed by the project license.

/*
Package main 提供 ExtractFlow 命令行入口。

# 概述

cmd/extractflow 把 schema 编译、Prompt 组装、Agent 列表校验与结果闸门
暴露为一次性子命令。所有子命令共享 YAML 配置加载（--config）、
结构化日志（zap）、可选的 OTLP 遥测，以及 Prometheus textfile 输出
（--metrics-out）。

# 子命令

  - compile — 检查并编译 schema，输出元数据、指纹与两个视图
  - prompt  — 编译 schema 并输出完整的抽取 Prompt
  - agents  — 校验 Agent 列表并输出执行顺序
  - gate    — 用可选 schema 筛查 JSON/JSONL 记录批次
  - version / help

# 构建注入

Version、BuildTime、GitCommit 通过 ldflags 设置。
*/
package main
