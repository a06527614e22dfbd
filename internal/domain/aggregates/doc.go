// Package aggregates defines the write boundaries of the tagging domain.
//
// Each aggregate method is one atomic transaction. Callers get back either the
// committed result or an *Error whose Code says how to react.
package aggregates
