package reflection

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessions_GetReturnsSameSession(t *testing.T) {
	r := NewSessions(time.Hour)
	a := r.Get("s1")
	b := r.Get("s1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, r.Get("s2"))
	assert.Equal(t, 2, r.Len())
}

func TestSessions_IdleSessionsStartOver(t *testing.T) {
	r := NewSessions(time.Hour)
	clock := testNow
	r.now = func() time.Time { return clock }

	first := r.Get("s1")
	first.state = StateFired

	clock = clock.Add(2 * time.Hour)
	second := r.Get("s1")
	assert.NotSame(t, first, second)
	assert.Equal(t, StateIdle, second.State())
}

func TestSessions_Drop(t *testing.T) {
	r := NewSessions(0)
	first := r.Get("s1")
	r.Drop("s1")
	assert.NotSame(t, first, r.Get("s1"))
}

func TestSessions_PruneExpired(t *testing.T) {
	r := NewSessions(time.Minute)
	clock := testNow
	r.now = func() time.Time { return clock }
	for i := 0; i < pruneThreshold; i++ {
		r.Get(fmt.Sprintf("s%d", i))
	}
	clock = clock.Add(time.Hour)
	r.Get("fresh")
	assert.Equal(t, 1, r.Len())
}
