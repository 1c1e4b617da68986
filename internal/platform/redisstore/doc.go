// Package redisstore implements the store interfaces on Redis.
//
// Progress lives in one hash per student holding the serialized state and
// its version; the version guard runs inside a Lua script so the compare and
// the write are atomic. Attempts are appended to a per-student list, with a
// global set of attempt IDs rejecting duplicates.
package redisstore
