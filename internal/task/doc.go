// Package task runs background work off the request path. The drill service
// uses it to persist progress and attempts without making the student wait
// on the store: tasks go onto a bounded queue and a small worker pool
// executes them. A full queue rejects the task instead of blocking.
package task
