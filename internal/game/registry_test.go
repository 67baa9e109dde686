package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateGetRemove(t *testing.T) {
	reg := NewRegistry()
	host := &fakeConn{}

	s := reg.Create(twoQuestionQuiz(), host, testSettings())
	require.Len(t, s.Pin(), 6)

	got, err := reg.Get(s.Pin())
	require.NoError(t, err)
	assert.Same(t, s, got)

	reg.Remove(s.Pin())
	_, err = reg.Get(s.Pin())
	assert.ErrorIs(t, err, ErrGameNotFound)

	// Removing twice is benign; the teardown path relies on this.
	reg.Remove(s.Pin())
}

func TestRegistryRetriesPinCollision(t *testing.T) {
	reg := NewRegistry()
	pins := []string{"111111", "111111", "111111", "222222"}
	i := 0
	reg.generatePin = func() string {
		pin := pins[i]
		i++
		return pin
	}

	first := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())
	assert.Equal(t, "111111", first.Pin())

	second := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())
	assert.Equal(t, "222222", second.Pin())
	assert.Equal(t, 2, reg.Count())
}

func TestRegistryPinReusableAfterRemove(t *testing.T) {
	reg := NewRegistry()
	reg.generatePin = func() string { return "333333" }

	first := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())
	require.Equal(t, "333333", first.Pin())
	reg.Remove(first.Pin())

	second := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())
	assert.Equal(t, "333333", second.Pin())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	pins := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())
			pins <- s.Pin()
		}()
	}
	wg.Wait()
	close(pins)

	seen := make(map[string]bool)
	for pin := range pins {
		require.False(t, seen[pin], "pin %s issued twice", pin)
		seen[pin] = true
		_, err := reg.Get(pin)
		require.NoError(t, err)
	}
	assert.Equal(t, 50, reg.Count())

	wg = sync.WaitGroup{}
	for pin := range seen {
		wg.Add(1)
		go func(pin string) {
			defer wg.Done()
			reg.Remove(pin)
		}(pin)
	}
	wg.Wait()
	assert.Equal(t, 0, reg.Count())
}

func TestRegistryConcurrentLookups(t *testing.T) {
	reg := NewRegistry()
	s := reg.Create(twoQuestionQuiz(), &fakeConn{}, testSettings())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				reg.Get(fmt.Sprintf("%06d", i))
				return
			}
			got, err := reg.Get(s.Pin())
			assert.NoError(t, err)
			assert.Same(t, s, got)
		}(i)
	}
	wg.Wait()
}
