package store

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrCounterNotFound = errors.New("counter not found")
	ErrCounterExists   = errors.New("counter already exists")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrQueueEmpty      = errors.New("queue empty")
)
