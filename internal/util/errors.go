package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrTitleTaken         = errors.New("course title already taken")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrOrderMismatch      = errors.New("reorder ids are not a permutation of existing items")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAssessmentEmpty    = errors.New("assessment has no questions")
	ErrQuestionIncomplete = errors.New("choice question has no correct option")
	ErrSessionNotFound    = errors.New("authoring session not found")
	ErrSessionNotActive   = errors.New("authoring session is not active")
	ErrStaleRevision      = errors.New("draft revision is stale")
	ErrInvalidEditorMode  = errors.New("invalid editor mode")
	ErrPremiumRequired    = errors.New("premium subscription required")
	ErrLoginRequired      = errors.New("login required")
	ErrAlreadyPublished   = errors.New("course already published")
	ErrNotPublished       = errors.New("course not published")
	ErrUnsupportedMedia   = errors.New("unsupported media format")
	ErrNotVideoLesson     = errors.New("lesson does not hold video content")
	ErrNoUploadInProgress = errors.New("no upload recorded for this lesson")
)
