package shared

import (
	"time"
)

// EntityKind names one of the record collections managed by the store.
type EntityKind string

// Entity kinds. Every store collection has exactly one kind name, and every
// event carries the kind of the record it describes.
const (
	KindUser         EntityKind = "user"
	KindStudent      EntityKind = "student"
	KindWeeklyReport EntityKind = "weekly_report"
	KindCertificate  EntityKind = "certificate"
	KindNOCRequest   EntityKind = "noc_request"
	KindCompany      EntityKind = "company"
	KindOpportunity  EntityKind = "opportunity"
	KindAssignedTask EntityKind = "assigned_task"
	KindTaskStatus   EntityKind = "task_status"
	KindApplication  EntityKind = "application"
	KindSystemLog    EntityKind = "system_log"
)

// AllKinds returns every entity kind in a stable order.
func AllKinds() []EntityKind {
	return []EntityKind{
		KindUser,
		KindStudent,
		KindWeeklyReport,
		KindCertificate,
		KindNOCRequest,
		KindCompany,
		KindOpportunity,
		KindAssignedTask,
		KindTaskStatus,
		KindApplication,
		KindSystemLog,
	}
}

// IsValid checks that the kind is one of the managed collections.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindUser, KindStudent, KindWeeklyReport, KindCertificate,
		KindNOCRequest, KindCompany, KindOpportunity, KindAssignedTask,
		KindTaskStatus, KindApplication, KindSystemLog:
		return true
	default:
		return false
	}
}

// Operation describes what happened to a record.
type Operation string

const (
	// OpCreated - a new record was appended to its collection.
	OpCreated Operation = "created"
	// OpUpdated - an existing record was merged with a patch.
	OpUpdated Operation = "updated"
	// OpDeleted - a record was removed from its collection, or soft-deleted
	// and therefore dropped from default list queries. Subscribers treat
	// both the same way: remove the cached entry by id.
	OpDeleted Operation = "deleted"
)

// IsValid checks that the operation is one of the known mutations.
func (o Operation) IsValid() bool {
	switch o {
	case OpCreated, OpUpdated, OpDeleted:
		return true
	default:
		return false
	}
}

// Event announces a single store mutation to subscribers.
//
// Record holds the full resulting record (the same value returned to the
// mutating caller), not a diff. For OpDeleted it holds the record as it was
// just before removal so subscribers can still read its id.
type Event struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Kind is the entity kind the mutation applied to.
	Kind EntityKind `json:"kind"`

	// Op is the mutation performed.
	Op Operation `json:"op"`

	// Record is the full record after the mutation (or before, for deletes).
	Record any `json:"record"`

	// OccurredAt is when the mutation completed inside the engine.
	OccurredAt time.Time `json:"occurred_at"`
}

// EventHandler is a function that handles a store event.
//
// Handlers run synchronously on the mutating goroutine, in subscription
// order; the mutation is not complete until every handler returned. Handlers
// must not block significantly.
type EventHandler func(event Event)

// EventPublisher defines the interface for publishing store events.
type EventPublisher interface {
	// Publish delivers an event to every current subscriber before returning.
	Publish(event Event)
}

// EventSubscriber defines the interface for subscribing to store events.
type EventSubscriber interface {
	// Subscribe registers a handler for all store events and returns a
	// function that removes the registration. Calling unsubscribe more than
	// once is a no-op.
	Subscribe(handler EventHandler) (unsubscribe func())
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
