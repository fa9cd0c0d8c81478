package model

import "errors"

var (
	// ErrNotFound is returned when a task, or the log of a task, does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a file that should be created already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when stored data or user input is malformed.
	ErrNotValid = errors.New("not valid")
)
