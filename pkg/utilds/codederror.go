// Copyright 2026, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package utilds

import (
	"errors"
	"fmt"
)

const (
	ErrCode_Session   = "ERR_SESSION"
	ErrCode_Update    = "ERR_UPDATE"
	ErrCode_Layout    = "ERR_LAYOUT"
	ErrCode_Dataframe = "ERR_DATAFRAME"
	ErrCode_Load      = "ERR_LOAD"
)

// CodedError wraps an error with a string code for categorization.
// The code can be extracted from anywhere in an error chain using GetErrorCode.
// SubCode provides additional granularity (e.g. the offending field name).
type CodedError struct {
	Code    string
	SubCode string
	Err     error
}

func (e CodedError) Error() string {
	return e.Err.Error()
}

func (e CodedError) Unwrap() error {
	return e.Err
}

func MakeCodedError(code string, err error) CodedError {
	return CodedError{Code: code, SubCode: "", Err: err}
}

func MakeSubCodedError(code string, subCode string, err error) CodedError {
	return CodedError{Code: code, SubCode: subCode, Err: err}
}

// GetErrorCode extracts the error code from anywhere in the error chain.
// Returns empty string if no CodedError is found.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func GetErrorSubCode(err error) string {
	if err == nil {
		return ""
	}
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.SubCode
	}
	return ""
}

// Errorf creates a formatted error wrapped in a CodedError.
func Errorf(code string, format string, args ...any) error {
	return MakeCodedError(code, fmt.Errorf(format, args...))
}

// SubErrorf is Errorf with a subcode.
func SubErrorf(code string, subCode string, format string, args ...any) error {
	return MakeSubCodedError(code, subCode, fmt.Errorf(format, args...))
}
