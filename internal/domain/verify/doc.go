// Package verify classifies a student's journal entry against the canonical
// entry of a scenario. Verification is pure: it never mutates its inputs,
// never fails, and reports every outcome as a Reason value.
package verify
