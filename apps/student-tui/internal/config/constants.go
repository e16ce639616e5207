package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 5 * time.Second
	ValkeyCommandTimeout = 3 * time.Second
)

// Circuit Breaker設定
const (
	CBName             = "student-api"
	CBMaxRequests      = 1
	CBInterval         = 30 * time.Second
	CBTimeout          = 15 * time.Second
	CBFailureThreshold = 5
)

// ページサイズの範囲
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// 画面表示設定
const (
	StatusMessageDuration = 3 * time.Second
)
