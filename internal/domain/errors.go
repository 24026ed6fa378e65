package domain

import "errors"

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrEmptyAccountPool   = errors.New("account pool is empty")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileAlreadyTracked = errors.New("file already uploaded")
)
