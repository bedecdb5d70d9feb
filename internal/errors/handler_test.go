package errors

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	level string
	msg   string
}

type mockColorOutput struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *mockColorOutput) record(level string, msgs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := ""
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	m.calls = append(m.calls, recordedCall{level: level, msg: msg})
}

func (m *mockColorOutput) Error(msgs ...string)   { m.record("error", msgs) }
func (m *mockColorOutput) Warning(msgs ...string) { m.record("warning", msgs) }
func (m *mockColorOutput) Info(msgs ...string)    { m.record("info", msgs) }
func (m *mockColorOutput) Success(msgs ...string) { m.record("success", msgs) }

func TestCLIHandlerRoutesLevels(t *testing.T) {
	mock := &mockColorOutput{}
	h := NewCLIHandler(mock)

	h.Error("e")
	h.Warning("w")
	h.Info("i")
	h.Success("s")

	assert.Equal(t, []recordedCall{
		{"error", "e"}, {"warning", "w"}, {"info", "i"}, {"success", "s"},
	}, mock.calls)
}

func TestReport(t *testing.T) {
	mock := &mockColorOutput{}
	h := NewCLIHandler(mock)

	Report(h, "load breeds", errors.New("boom"))
	Report(h, "load breeds", nil)
	Report(nil, "load breeds", errors.New("ignored"))

	require.Len(t, mock.calls, 1)
	assert.Equal(t, "Failed to load breeds: boom", mock.calls[0].msg)
}

func TestToastHandlerStoresAndNotifies(t *testing.T) {
	var got []Toast
	h := NewToastHandler(func(t Toast) { got = append(got, t) })
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.nowFunc = func() time.Time { return fixed }

	h.Error("search failed")
	h.Success("saved")

	require.Len(t, got, 2)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.Equal(t, fixed, got[0].Timestamp)
	assert.NotEqual(t, got[0].ID, got[1].ID)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "saved", latest.Text)
	assert.Equal(t, "success", latest.Severity.String())
}

func TestToastHandlerHistoryBound(t *testing.T) {
	h := NewToastHandler(nil)
	h.limit = 3
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		h.Info(m)
	}
	all := h.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Text)
	assert.Equal(t, "e", all[2].Text)
}

func TestToastHandlerDismissAndClear(t *testing.T) {
	h := NewToastHandler(nil)
	_, ok := h.Latest()
	assert.False(t, ok)

	h.Warning("one")
	h.Warning("two")
	first := h.All()[0]

	assert.True(t, h.Dismiss(first.ID))
	assert.False(t, h.Dismiss(first.ID))
	assert.Len(t, h.All(), 1)

	h.Clear()
	assert.Empty(t, h.All())
}

func TestToastHandlerCallbackMayReenter(t *testing.T) {
	var h *ToastHandler
	seen := 0
	h = NewToastHandler(func(Toast) {
		seen = len(h.All())
	})
	h.Error("x")
	assert.Equal(t, 1, seen)
}

func TestToastHandlerConcurrent(t *testing.T) {
	h := NewToastHandler(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Error("x")
		}()
	}
	wg.Wait()
	assert.Len(t, h.All(), 20)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Error("x")
		Discard.Success("y")
	})
}
