package domain

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionExists   = errors.New("question already exists")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagExists        = errors.New("tag already exists")
	ErrSlugTaken        = errors.New("tag slug already taken")
	ErrInvalidInput     = errors.New("invalid input")
)
