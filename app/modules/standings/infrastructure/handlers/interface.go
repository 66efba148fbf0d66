package standingshandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers reacts to scoring events by queueing standings recomputes.
type Handlers interface {
	// HandleHoleUpdated schedules a recompute of the hole's division.
	HandleHoleUpdated(msg *message.Message) error

	// HandleMatchUpdated schedules a recompute of the match's division.
	HandleMatchUpdated(msg *message.Message) error
}
