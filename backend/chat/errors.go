// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package chat

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every store and handler. All failures are
// scoped to the triggering request; nothing here is fatal to the
// process. Match with errors.Is.
var (
	// ErrValidation marks caller input rejected before any remote call.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup that resolved nothing.
	ErrNotFound = errors.New("not found")

	// ErrRemoteWrite marks a write that did not reach or was not
	// accepted by the backing store. Retry is a caller decision.
	ErrRemoteWrite = errors.New("remote write failed")
)

// Validationf wraps ErrValidation with a reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a reason.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// RemoteWrite wraps a store/driver error as an ErrRemoteWrite.
func RemoteWrite(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteWrite, op, err)
}
