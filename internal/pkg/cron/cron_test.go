package cron

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSnapshotter struct {
	calls int32
	err   error
}

func (f *fakeSnapshotter) WriteDailySnapshot() error {
	atomic.AddInt32(&f.calls, 1)
	return f.err
}

func TestNewService(t *testing.T) {
	svc := NewService(nil)
	assert.NotNil(t, svc)
	assert.NotNil(t, svc.stopChan)
}

func TestService_StartWritesInitialSnapshot(t *testing.T) {
	fake := &fakeSnapshotter{}
	svc := NewService(fake)

	svc.Start()
	time.Sleep(20 * time.Millisecond)
	svc.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
}

func TestService_RunNow(t *testing.T) {
	fake := &fakeSnapshotter{}
	svc := NewService(fake)

	assert.NoError(t, svc.RunNow())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
}

func TestService_RunNow_Error(t *testing.T) {
	fake := &fakeSnapshotter{err: errors.New("db down")}
	svc := NewService(fake)

	assert.Error(t, svc.RunNow())
}

func TestService_RunNow_NilSnapshotter(t *testing.T) {
	svc := NewService(nil)
	assert.NoError(t, svc.RunNow())
}

func TestService_StopBeforeStart(t *testing.T) {
	svc := NewService(&fakeSnapshotter{})
	svc.Stop()
}
