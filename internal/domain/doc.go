// Package domain contains the core entities of the journal drill: bond
// scenarios and their canonical journal entries, the candidate entries
// students submit, the per-student progress state and the attempt log.
// It is independent of any storage or delivery mechanism.
package domain
