//
//  Copyright 2026 The rpcwire Authors
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package status defines the error taxonomy shared by the transport layer.
// Every failure surfaced by the framing, egress and pipeline code is an
// *Error carrying one of the codes below, so callers can branch on the
// category (retry on ResourceExhausted, give up on FailedPrecondition, ...)
// without string matching.
package status

import (
	"errors"
	"fmt"
)

type Code uint32

const (
	CodeOk Code = iota
	CodeInvalidArgument
	CodeFailedPrecondition
	CodeResourceExhausted
	CodeDataLoss
	CodeUnavailable
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeOk:
		return "ok"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeFailedPrecondition:
		return "failed precondition"
	case CodeResourceExhausted:
		return "resource exhausted"
	case CodeDataLoss:
		return "data loss"
	case CodeUnavailable:
		return "unavailable"
	case CodeInternal:
		return "internal"
	}
	return fmt.Sprintf("code(%d)", uint32(c))
}

type Error struct {
	code Code
	what string
}

func Errf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, what: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.what)
}

func (e *Error) Code() Code {
	return e.code
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Errf(CodeInvalidArgument, format, args...)
}

func FailedPreconditionf(format string, args ...interface{}) *Error {
	return Errf(CodeFailedPrecondition, format, args...)
}

func ResourceExhaustedf(format string, args ...interface{}) *Error {
	return Errf(CodeResourceExhausted, format, args...)
}

func DataLossf(format string, args ...interface{}) *Error {
	return Errf(CodeDataLoss, format, args...)
}

func Unavailablef(format string, args ...interface{}) *Error {
	return Errf(CodeUnavailable, format, args...)
}

func Internalf(format string, args ...interface{}) *Error {
	return Errf(CodeInternal, format, args...)
}

// GetCode returns the status code of err, or CodeOk for nil and
// CodeInternal for errors that did not originate from this package.
// Wrapped errors are unwrapped with errors.As.
func GetCode(err error) Code {
	if err == nil {
		return CodeOk
	}
	var se *Error
	if errors.As(err, &se) {
		return se.code
	}
	return CodeInternal
}

func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

func IsResourceExhausted(err error) bool {
	return GetCode(err) == CodeResourceExhausted
}

func IsDataLoss(err error) bool {
	return GetCode(err) == CodeDataLoss
}

func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}
