// Package model defines data structures for the Captus AI service.
package model

// Result is the uniform envelope every domain operation returns. Expected
// failures (not found, validation, ownership) travel inside the envelope with
// Success=false; they are never raised as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Ok builds a success envelope carrying an optional payload.
func Ok(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope. Data is always absent on failure.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
