package model

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrParse           = errors.New("malformed time string")
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrTutorExists     = errors.New("tutor already exists")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotTaken       = errors.New("slot already booked")
	ErrVersionConflict = errors.New("tutor record changed concurrently")
)
