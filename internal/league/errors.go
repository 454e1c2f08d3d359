package league

import "errors"

// Domain validation failures. All of these are recoverable: the chat pipeline
// maps them to conversational error replies and the HTTP layer to 4xx codes.
var (
	ErrDuplicateName    = errors.New("a league with that name already exists")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrUnknownLeague    = errors.New("league not found")
	ErrDuplicateFixture = errors.New("a game between these two teams is already scheduled")
)
