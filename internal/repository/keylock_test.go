package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := newKeyLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("s1")
			v := counter
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, locks.locks)
}

func TestKeyLockIndependentKeys(t *testing.T) {
	locks := newKeyLock()
	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")
	unlockB()
	unlockA()
	assert.Empty(t, locks.locks)
}
