// Copyright 2026 ExtractFlow Authors
// Use of this source code is governed by the project license.

// Package config 提供 ExtractFlow 的配置管理功能。
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量（EXTRACTFLOW_ 前缀）。
// 包含编译器长度上限、Prompt 模式、结果闸门、日志、遥测与指标配置。
package config
