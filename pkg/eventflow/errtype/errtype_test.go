package errtype_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/eventflow/pkg/eventflow/errtype"
)

func TestType_IsA(t *testing.T) {
	any := errtype.NewType("CORE", "ANY")
	connectivity := errtype.NewSubType("CORE", "CONNECTIVITY", any)
	httpTimeout := errtype.NewSubType("HTTP", "TIMEOUT", connectivity)
	security := errtype.NewSubType("CORE", "SECURITY", any)

	assert.True(t, httpTimeout.IsA(httpTimeout))
	assert.True(t, httpTimeout.IsA(connectivity))
	assert.True(t, httpTimeout.IsA(any))
	assert.False(t, httpTimeout.IsA(security))
	assert.False(t, connectivity.IsA(httpTimeout))
}

func TestType_String(t *testing.T) {
	tp := errtype.NewType("HTTP", "TIMEOUT")
	assert.Equal(t, "HTTP:TIMEOUT", tp.String())
}

func TestSingleMatcher(t *testing.T) {
	connectivity := errtype.NewType("CORE", "CONNECTIVITY")
	httpTimeout := errtype.NewSubType("HTTP", "TIMEOUT", connectivity)
	security := errtype.NewType("CORE", "SECURITY")

	m := errtype.NewSingleMatcher(connectivity)

	assert.True(t, m.Matches(connectivity))
	assert.True(t, m.Matches(httpTimeout))
	assert.False(t, m.Matches(security))
	assert.False(t, m.Matches(nil))
}

func TestDisjunctive_AnyMatch(t *testing.T) {
	connectivity := errtype.NewType("CORE", "CONNECTIVITY")
	security := errtype.NewType("CORE", "SECURITY")
	routing := errtype.NewType("CORE", "ROUTING")

	m := errtype.Disjunctive(
		errtype.NewSingleMatcher(connectivity),
		errtype.NewSingleMatcher(security),
	)

	assert.True(t, m.Matches(connectivity))
	assert.True(t, m.Matches(security))
	assert.False(t, m.Matches(routing))
}

func TestDisjunctive_EmptySetMatchesNothing(t *testing.T) {
	m := errtype.Disjunctive()
	assert.False(t, m.Matches(errtype.NewType("CORE", "ANY")))
}

func TestDisjunctive_CopiesMatcherSet(t *testing.T) {
	connectivity := errtype.NewType("CORE", "CONNECTIVITY")

	matchers := []errtype.Matcher{errtype.NewSingleMatcher(connectivity)}
	m := errtype.Disjunctive(matchers...)

	// Mutating the caller's slice must not affect the matcher.
	matchers[0] = errtype.MatcherFunc(func(*errtype.Type) bool { return false })
	assert.True(t, m.Matches(connectivity))
}

func TestDisjunctive_ConcurrentReads(t *testing.T) {
	connectivity := errtype.NewType("CORE", "CONNECTIVITY")
	m := errtype.Disjunctive(errtype.NewSingleMatcher(connectivity))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, m.Matches(connectivity))
			}
		}()
	}
	wg.Wait()
}

func TestMatcherFunc(t *testing.T) {
	m := errtype.MatcherFunc(func(tp *errtype.Type) bool {
		return tp != nil && tp.Namespace() == "HTTP"
	})

	assert.True(t, m.Matches(errtype.NewType("HTTP", "TIMEOUT")))
	assert.False(t, m.Matches(errtype.NewType("CORE", "ANY")))
}
