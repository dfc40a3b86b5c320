package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDraft struct {
	kind string
}

func (d *stubDraft) Kind() string { return d.kind }

func TestMemoryStore(t *testing.T) {
	t.Run("get on empty store", func(t *testing.T) {
		s := NewMemoryStore()

		d, ok := s.Get("alice")
		assert.False(t, ok)
		assert.Nil(t, d)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("set then get", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("alice", &stubDraft{kind: "create"})

		d, ok := s.Get("alice")
		require.True(t, ok)
		assert.Equal(t, "create", d.Kind())
		assert.Equal(t, 1, s.Len())
	})

	t.Run("set overwrites unconditionally", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("alice", &stubDraft{kind: "create"})
		s.Set("alice", &stubDraft{kind: "delete"})

		d, ok := s.Get("alice")
		require.True(t, ok)
		assert.Equal(t, "delete", d.Kind())
		assert.Equal(t, 1, s.Len())
	})

	t.Run("drafts are per user", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("alice", &stubDraft{kind: "create"})
		s.Set("bob", &stubDraft{kind: "report"})

		a, ok := s.Get("alice")
		require.True(t, ok)
		assert.Equal(t, "create", a.Kind())

		b, ok := s.Get("bob")
		require.True(t, ok)
		assert.Equal(t, "report", b.Kind())
	})

	t.Run("clear removes only the given user", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("alice", &stubDraft{kind: "create"})
		s.Set("bob", &stubDraft{kind: "report"})

		s.Clear("alice")

		_, ok := s.Get("alice")
		assert.False(t, ok)
		_, ok = s.Get("bob")
		assert.True(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("clear on absent user is a no-op", func(t *testing.T) {
		s := NewMemoryStore()
		s.Clear("ghost")
		assert.Equal(t, 0, s.Len())
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", n%10)
			s.Set(user, &stubDraft{kind: "create"})
			s.Get(user)
			s.Len()
			if n%3 == 0 {
				s.Clear(user)
			}
		}(i)
	}
	wg.Wait()
}
