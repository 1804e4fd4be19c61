package entity

import "errors"

var (
	ErrInvalidTitle       = errors.New("video title cannot be empty")
	ErrInvalidFileType    = errors.New("invalid file type, a video file is required")
	ErrInvalidVideoLength = errors.New("video duration is outside the allowed range")
	ErrFileProcessing     = errors.New("failed to process video file")
	ErrStorageUpload      = errors.New("failed to upload video to storage")
	ErrQueueUnavailable   = errors.New("failed to queue video for processing")

	ErrInvalidID    = errors.New("invalid video id format")
	ErrNotFound     = errors.New("video not found")
	ErrForbidden    = errors.New("you do not have permission to access this video")
	ErrInvalidState = errors.New("published videos cannot be deleted")

	ErrAlreadyVoted = errors.New("you have already voted for this video")
	ErrSelfVote     = errors.New("you cannot vote for your own video")
)
