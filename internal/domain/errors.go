package domain

import "errors"

var (
	// ErrNotFound covers any missing referenced entity (game, user, order, payment).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid guards the one-time settlement boundary.
	ErrAlreadyPaid = errors.New("order already payed")

	// ErrOrderClosed is returned when an order in a terminal state is mutated.
	ErrOrderClosed = errors.New("order is closed")

	// ErrDuplicateOpenOrder maps the (user_id, open) unique-key violation.
	ErrDuplicateOpenOrder = errors.New("user already has an open order")

	ErrInvalidArgument = errors.New("invalid argument")
)
