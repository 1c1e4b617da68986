// Package remote implements the drill persistence gateway over HTTP, talking
// to the /api/progress and /api/attempt endpoints of a running server.
package remote
