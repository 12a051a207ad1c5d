package db

import "errors"

// ErrNotFound is returned by repositories when a requested document does
// not exist. Services detect it with errors.Is.
var ErrNotFound = errors.New("document not found")
