// 版权所有 2024 ExtractFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的编译管线指标采集能力，覆盖
schema 编译、长度截断、结果闸门与 Agent 列表校验四个维度。

# 概述

Collector 在调用方传入的 prometheus.Registerer 上注册指标，
不使用全局默认 Registry，因此同一进程内可以并存多个实例
（例如测试中每个用例一个独立 Registry）。所有指标按 namespace 隔离。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram 向量指标。
    nil *Collector 上的所有记录方法均为空操作，组件可以无条件调用。

# 主要能力

  - 编译指标：编译次数（按 status 分组）与编译耗时。
  - 截断指标：按 section（instructions / general_instructions）计数。
  - 闸门指标：按 outcome（valid / invalid）统计记录数。
  - Agent 列表指标：校验次数，按 status 分组。
*/
package metrics
