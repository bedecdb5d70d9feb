package errors

import (
	"sync"
	"time"
)

// Severity classifies a toast.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeveritySuccess
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Toast is a transient notification shown to the user.
type Toast struct {
	ID        int
	Text      string
	Severity  Severity
	Timestamp time.Time
}

// DefaultToastHistory bounds the number of toasts retained.
const DefaultToastHistory = 50

// ToastHandler stores toasts for display and forwards each one to an
// optional subscriber. Failures reported here never reach the caller of the
// operation that produced them.
type ToastHandler struct {
	mu      sync.RWMutex
	toasts  []Toast
	nextID  int
	limit   int
	onToast func(Toast)
	nowFunc func() time.Time
}

var _ ErrorHandler = (*ToastHandler)(nil)

// NewToastHandler creates a handler. onToast may be nil; it is called
// synchronously with the handler lock released.
func NewToastHandler(onToast func(Toast)) *ToastHandler {
	return &ToastHandler{
		limit:   DefaultToastHistory,
		onToast: onToast,
		nowFunc: time.Now,
	}
}

func (h *ToastHandler) Error(msg string)   { h.push(msg, SeverityError) }
func (h *ToastHandler) Warning(msg string) { h.push(msg, SeverityWarning) }
func (h *ToastHandler) Info(msg string)    { h.push(msg, SeverityInfo) }
func (h *ToastHandler) Success(msg string) { h.push(msg, SeveritySuccess) }

func (h *ToastHandler) push(msg string, sev Severity) {
	h.mu.Lock()
	h.nextID++
	t := Toast{ID: h.nextID, Text: msg, Severity: sev, Timestamp: h.nowFunc()}
	h.toasts = append(h.toasts, t)
	if over := len(h.toasts) - h.limit; over > 0 {
		h.toasts = append([]Toast(nil), h.toasts[over:]...)
	}
	cb := h.onToast
	h.mu.Unlock()

	if cb != nil {
		cb(t)
	}
}

// Latest returns the most recent toast.
func (h *ToastHandler) Latest() (Toast, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.toasts) == 0 {
		return Toast{}, false
	}
	return h.toasts[len(h.toasts)-1], true
}

// All returns a copy of the retained toasts, oldest first.
func (h *ToastHandler) All() []Toast {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Toast, len(h.toasts))
	copy(out, h.toasts)
	return out
}

// Dismiss removes the toast with the given id.
func (h *ToastHandler) Dismiss(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, t := range h.toasts {
		if t.ID == id {
			h.toasts = append(h.toasts[:i], h.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops all toasts.
func (h *ToastHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = nil
}
