// Package http exposes book search, favorites and the session-scoped
// selection as a JSON API built on gin.
//
// Repository errors are translated by respondDataError:
//
//	remote no_internet       503
//	remote request_timeout   504
//	remote too_many_requests 429
//	other remote kinds       502
//	local disk_full          507
//	other local kinds        500
package http
