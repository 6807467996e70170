// Copyright (c) ExtractFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 ExtractFlow 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 schema、property、compiler、
prompt、gate 与 agent/declarative 提供统一的错误契约，以避免循环依赖。

# 核心类型

  - ErrorCode — 统一错误码（SCHEMA_SHAPE、MALFORMED_WIRE_NODE、
    VALIDATOR_MISMATCH、AGENT_LIST、GATE_REJECTION、INVALID_PROPERTY）
  - Error     — 结构化错误信封，携带 Code、Message、Path 与 Cause
  - Coded     — 领域错误实现的最小接口，供 GetErrorCode 识别

# 主要能力

  - 错误工具链：NewError / WithCause / WithPath / GetErrorCode / IsErrorCode
  - 所有判断均通过 errors.As 穿透 fmt.Errorf("...: %w") 包装链
*/
package types
