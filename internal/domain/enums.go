package domain

// Action is the stored action of a version record. Callers may store their own
// values; these are the ones this module writes itself.
type Action string

const (
	ActionUpdated  Action = "updated"
	ActionMoved    Action = "moved"
	ActionApproved Action = "approved"
)

// ActionType classifies a trail entry relative to its predecessor.
type ActionType string

const (
	ActionTypeInitial ActionType = "initial"
	ActionTypeEdit    ActionType = "edit"
	ActionTypeMove    ActionType = "move"
)

// PageEvent is the event name sent to the storage mirror.
type PageEvent string

const (
	PageEventCreated PageEvent = "created"
	PageEventUpdated PageEvent = "updated"
	PageEventDeleted PageEvent = "deleted"
)

// ReconnectMode tells the link graph why links to a path are being refreshed.
type ReconnectMode string

const (
	ReconnectCreate ReconnectMode = "create"
	ReconnectMove   ReconnectMode = "move"
	ReconnectDelete ReconnectMode = "delete"
)
