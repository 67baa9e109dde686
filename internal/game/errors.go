package game

import "errors"

// Errors reported back to the originating connection as ERROR events. None of
// them affect other connections in the session.
var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNameTaken          = errors.New("name already taken")
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidPayload     = errors.New("invalid payload")

	// ErrUnknownCommand is returned by ParseCommand for unrecognized frame
	// types. The server ignores it to tolerate protocol evolution.
	ErrUnknownCommand = errors.New("unknown command type")
)
