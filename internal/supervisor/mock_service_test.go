// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// mockService is a suture.Service whose behavior is set by the test.
type mockService struct {
	name      string
	starts    atomic.Int32
	failCount atomic.Int32
	mu        sync.Mutex
	maxFails  int32
	err       error
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)

	m.mu.Lock()
	err, maxFails := m.err, m.maxFails
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errSimulated
	}
	if err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// setError makes every Serve call return err immediately.
func (m *mockService) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// setFailCount makes the first n Serve calls fail.
func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) startCount() int32 { return m.starts.Load() }

func (m *mockService) String() string { return m.name }
