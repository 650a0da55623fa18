package store

import "errors"

// Sentinel errors returned by the store layer. Services translate
// these into coded domain errors before they reach a handler.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	ErrContentNotFound = errors.New("content item not found")

	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag already exists")

	ErrShareLinkNotFound = errors.New("share link not found")
	ErrShareLinkExists   = errors.New("share link already exists")
	ErrShareTokenTaken   = errors.New("share token already taken")
)
