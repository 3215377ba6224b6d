// Copyright (C) 2025 the vosim authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package verrors carries coded errors across the dispatcher boundary.
package verrors

import "fmt"

// Code identifies a class of error for programmatic handling.
type Code string

const (
	// CodeNoMatch: input matched nothing, not even fuzzily.
	CodeNoMatch Code = "no_match"
	// CodeAmbiguous: several prefix/glob candidates matched.
	CodeAmbiguous Code = "ambiguous"
	// CodePath: a path argument escaped the sandbox or was malformed.
	CodePath Code = "path_resolution"
	// CodeHandler: a file or directory operation failed.
	CodeHandler Code = "handler"
	// CodeUsage: bad arguments for a known command.
	CodeUsage Code = "usage"
	// CodeConfig: a startup file was missing where required, or malformed.
	CodeConfig Code = "config"
)

// Error wraps an underlying error with a code and message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new coded error with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new coded error that wraps an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
