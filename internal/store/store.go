// Package store implements the persistence layer: one store per aggregate with
// explicit query methods over GORM. Stores accept a *gorm.DB at construction
// so the checkout transaction can run them against a shared tx handle.
package store

import "errors"

// ErrNotFound is returned when an entity is absent or not owned by the caller.
var ErrNotFound = errors.New("not found")
