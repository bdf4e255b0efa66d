package ecs

import "errors"

var (
	ErrEntityNotFound = errors.New("ecs: entity not found")
	ErrKeyConflict    = errors.New("ecs: entity key already exists")
	ErrEmptyKey       = errors.New("ecs: empty entity key")
)
