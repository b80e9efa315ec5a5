package services

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionNotSaved  = errors.New("session could not be saved")
	ErrNotAnImage       = errors.New("file is not an image")
)
