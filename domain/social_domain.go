package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessFollow        = "followed successfully"
	MessageSuccessRequestSent   = "follow request sent"
	MessageSuccessUnfollow      = "unfollowed successfully"
	MessageSuccessAcceptRequest = "follow request accepted"
	MessageSuccessRejectRequest = "follow request rejected"
	MessageSuccessCancelRequest = "follow request cancelled"
	MessageSuccessGetRequests   = "success get follow requests"

	MessageFailedFollow        = "failed to follow user"
	MessageFailedUnfollow      = "failed to unfollow user"
	MessageFailedAcceptRequest = "failed to accept follow request"
	MessageFailedRejectRequest = "failed to reject follow request"
	MessageFailedCancelRequest = "failed to cancel follow request"
	MessageFailedGetRequests   = "failed to get follow requests"

	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrRequestNotFound = errors.New("follow request not found")
	ErrNotRecipient    = errors.New("only the request recipient may act on it")
)

// Follow outcomes reported to the caller.
const (
	FollowOutcomeFollowed       = "followed"
	FollowOutcomeRequestSent    = "request_sent"
	FollowOutcomeAlreadyRelated = "already_related"
)

type (
	FollowResponse struct {
		Outcome string `json:"outcome"`
	}

	FollowRequestResponse struct {
		ID         string    `json:"id"`
		FromUserID string    `json:"from_user_id"`
		FromHandle string    `json:"from_handle,omitempty"`
		ToUserID   string    `json:"to_user_id"`
		CreatedAt  time.Time `json:"created_at"`
	}
)
