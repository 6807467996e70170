// Package tlsutil 提供集中式 TLS 配置，
// 为连接 OTLP 收集器的 gRPC 导出器提供安全加固的 TLS 设置（TLS 1.2+，仅 AEAD 密码套件）。
package tlsutil
