package domain

import "errors"

var (
	// ErrUnknownExporter is returned when no exporter is registered under a key.
	ErrUnknownExporter = errors.New("unknown exporter")
	// ErrSnapshotNotFound is returned when a stored report has expired or never existed.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrInvalidEmail is returned for requests without a usable email address.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrGroupNotFound is returned when a membership references a missing group.
	ErrGroupNotFound = errors.New("group not found")
)
