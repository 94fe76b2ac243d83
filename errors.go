package loginguard

import "errors"

var (
	// ErrStorageRequired is an exported constant or variable used by the guard.
	ErrStorageRequired = errors.New("storage backend required")
	// ErrNoSession is an exported constant or variable used by the guard.
	ErrNoSession = errors.New("no active session")
	// ErrSessionWrite is an exported constant or variable used by the guard.
	ErrSessionWrite = errors.New("session write failed")
	// ErrCleanupDegraded is an exported constant or variable used by the guard.
	ErrCleanupDegraded = errors.New("cleanup verification failed, storage force-wiped")
)
