// Package errors routes user-facing failures to the terminal or to the toast
// side channel used by the interactive browser.
package errors

import "fmt"

// ErrorHandler is the interface for reporting user-facing messages.
// Different implementations can handle them differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the subset of the colors package used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages through a ColorOutput.
type CLIHandler struct {
	colors ColorOutput
}

func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string)   { h.colors.Error(msg) }
func (h *CLIHandler) Warning(msg string) { h.colors.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.colors.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.colors.Success(msg) }

// Report sends "Failed to <action>: <err>" to h as an error. A nil err or
// handler is ignored.
func Report(h ErrorHandler, action string, err error) {
	if h == nil || err == nil {
		return
	}
	h.Error(fmt.Sprintf("Failed to %s: %v", action, err))
}

// Discard is an ErrorHandler that drops every message.
var Discard ErrorHandler = discard{}

type discard struct{}

func (discard) Error(string)   {}
func (discard) Warning(string) {}
func (discard) Info(string)    {}
func (discard) Success(string) {}
