package models

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorised access. please login or signup")
	ErrUserNotExists        = errors.New("user doesn't exist")
	ErrPostNotExists        = errors.New("tweet doesn't exist")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrWrongEmailOrPassword = errors.New("wrong email or password")
	ErrWrongInfo            = errors.New("wrong information provided")
	ErrInternal             = errors.New("something went wrong")
)
