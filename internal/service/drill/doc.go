// Package drill runs journal-entry drill sessions. It ties the answer
// verifier and the progress tracker to a persistence gateway, keeping one
// in-memory session per student and persisting after every transition.
package drill
