//go:build js && wasm

package main

import "errors"

var (
	errMissingArgument = errors.New("missing argument")
	errStaleText       = errors.New("no text entry for token")
)
