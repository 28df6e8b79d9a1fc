package event

import "errors"

var (
	ErrNotFound            = errors.New("event not found")
	ErrInvalidID           = errors.New("invalid event ID")
	ErrInvalidAlertCode    = errors.New("invalid alert code")
	ErrInvalidLocation     = errors.New("invalid location")
	ErrNoImage             = errors.New("no image associated with this event")
	ErrImageNotFound       = errors.New("image not found")
	ErrInvalidImageType    = errors.New("invalid file type. Allowed: JPEG, PNG, GIF, WEBP")
)
