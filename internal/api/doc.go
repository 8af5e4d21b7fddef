// Package api 處理 HTTP 請求路由。
//
// 路由分為公開的查詢（問題列表、詳情、回答詳情、即時事件）與需要 Bearer token 的
// 新增、修改、刪除、推薦操作。handlers 子包負責把請求轉成 service 呼叫，
// 並把 service 的錯誤轉成 errs.HTTPError。
package api
