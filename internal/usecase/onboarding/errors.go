package onboarding

import "errors"

var (
	ErrAuthentication        = errors.New("authentication failed")
	ErrStageFailed           = errors.New("stage failed")
	ErrMandatoryFieldMissing = errors.New("mandatory field missing")
)
