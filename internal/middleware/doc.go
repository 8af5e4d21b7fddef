// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含 JWT 身份驗證、request id，以及以 zerolog 記錄每個請求的日誌。
package middleware
