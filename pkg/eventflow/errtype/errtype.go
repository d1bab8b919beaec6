// Package errtype provides error classification types and matchers.
//
// A Type identifies a category of failure (e.g. CONNECTIVITY, or a
// connector-specific subtype of it). Matchers are predicates over types;
// Disjunctive composes them with boolean OR so error-handling routes can
// declare "handle any of these".
package errtype

import "fmt"

// Type identifies a category of failure. Types form a hierarchy:
// a type with a parent matches anywhere its parent matches.
// Types are immutable after construction and safe for concurrent use.
type Type struct {
	namespace  string
	identifier string
	parent     *Type
}

// NewType creates an error type with no parent.
func NewType(namespace, identifier string) *Type {
	return &Type{namespace: namespace, identifier: identifier}
}

// NewSubType creates an error type descending from parent.
func NewSubType(namespace, identifier string, parent *Type) *Type {
	return &Type{namespace: namespace, identifier: identifier, parent: parent}
}

// Namespace returns the type's namespace.
func (t *Type) Namespace() string { return t.namespace }

// Identifier returns the type's identifier within its namespace.
func (t *Type) Identifier() string { return t.identifier }

// Parent returns the parent type, or nil for a root type.
func (t *Type) Parent() *Type { return t.parent }

// String returns "NAMESPACE:IDENTIFIER".
func (t *Type) String() string {
	return fmt.Sprintf("%s:%s", t.namespace, t.identifier)
}

// IsA reports whether t is other or descends from it.
func (t *Type) IsA(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
		if cur.namespace == other.namespace && cur.identifier == other.identifier {
			return true
		}
	}
	return false
}

// Matcher is a classification predicate over error types.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Matches reports whether the type satisfies the predicate.
	Matches(t *Type) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(t *Type) bool

// Matches implements Matcher.
func (f MatcherFunc) Matches(t *Type) bool { return f(t) }

// SingleMatcher matches a type and all its subtypes.
type SingleMatcher struct {
	errorType *Type
}

// NewSingleMatcher creates a matcher for errorType and its subtypes.
func NewSingleMatcher(errorType *Type) *SingleMatcher {
	return &SingleMatcher{errorType: errorType}
}

// Matches reports whether t is or descends from the matcher's type.
func (m *SingleMatcher) Matches(t *Type) bool {
	if t == nil {
		return false
	}
	return t.IsA(m.errorType)
}

// DisjunctiveMatcher matches when any of its component matchers match.
// The matcher set is copied at construction and never mutated, so the
// matcher is safe for concurrent use.
type DisjunctiveMatcher struct {
	matchers []Matcher
}

// Disjunctive composes matchers with boolean OR.
// An empty set matches nothing.
func Disjunctive(matchers ...Matcher) *DisjunctiveMatcher {
	copied := make([]Matcher, len(matchers))
	copy(copied, matchers)
	return &DisjunctiveMatcher{matchers: copied}
}

// Matches reports whether any component matcher matches t.
func (m *DisjunctiveMatcher) Matches(t *Type) bool {
	for _, matcher := range m.matchers {
		if matcher.Matches(t) {
			return true
		}
	}
	return false
}
