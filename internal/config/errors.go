package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates the value is outside its allowed range.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates an explicitly requested config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// SettingError reports a problem with a single setting.
type SettingError struct {
	// Path is the dot-separated setting path (e.g., "editor.tabSize").
	Path string
	// Source names the layer that supplied the value.
	Source string
	// Err is the underlying error.
	Err error
}

func (e *SettingError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("setting %s (from %s): %v", e.Path, e.Source, e.Err)
	}
	return fmt.Sprintf("setting %s: %v", e.Path, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}
