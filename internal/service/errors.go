package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrSlugTaken          = errors.New("post with this title already exists")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrInternalServer     = errors.New("internal server error")

	// ErrForbidden 是所有权限不足错误的父错误
	ErrForbidden        = errors.New("forbidden")
	ErrNotPostAuthor   = fmt.Errorf("%w: you are not the author of this post", ErrForbidden)
	ErrNotCommentOwner = fmt.Errorf("%w: you are not authorized to modify this comment", ErrForbidden)
)

// invalidInput 包装 ErrInvalidInput 并附带面向客户端的说明
func invalidInput(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, detail)
}
