// Package repository defines error types that are reused across the
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without string
// matching on driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the users primary key.
// Handlers translate this into a flash message on the registration form.
var ErrEmailExists = errors.New("email already exists")
