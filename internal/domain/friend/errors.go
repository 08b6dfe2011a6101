package friend

import "errors"

var (
	ErrSelfRequest        = errors.New("cannot send a friend request to yourself")
	ErrSelfUnfriend       = errors.New("cannot unfriend yourself")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrRequestExists      = errors.New("a pending request already exists between these users")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrRequestNotPending  = errors.New("friend request is not pending or not addressed to this user")
	ErrFriendshipNotFound = errors.New("friendship not found")
)
