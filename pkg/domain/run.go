package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a sync run.
type RunID uuid.UUID

// String returns the canonical UUID form.
func (id RunID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID in canonical UUID form.
func (id RunID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText() //nolint: wrapcheck
}

// UnmarshalText decodes any form accepted by uuid.Parse.
func (id *RunID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b) //nolint: wrapcheck
}

// RunKind tells which side of the pipeline a run belongs to.
type RunKind string

const (
	// RunKindDiscover is an App Discovery fetch plus URL collection.
	RunKindDiscover RunKind = "DISCOVER"
	// RunKindPush is an upload of destinations into a destination list.
	RunKindPush RunKind = "PUSH"
)

// RunStatus represents the lifecycle state of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// SyncRun records one discover or push execution and its totals.
type SyncRun struct {
	ID     RunID     `json:"id"`
	Kind   RunKind   `json:"kind"`
	Target string    `json:"target"` // risk level or input file
	Status RunStatus `json:"status"`

	ListID   DestinationListID `json:"listId,omitempty"`
	ListName string            `json:"listName,omitempty"`

	// Submitted is the number of applications (discover) or destinations (push) handled.
	Submitted int `json:"submitted"`
	// Added is the number of URLs collected (discover) or destinations confirmed (push).
	Added    int  `json:"added"`
	Rejected int  `json:"rejected"`
	Fallback bool `json:"fallback"`

	LastError string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Rejection is a destination the API refused, with the reason it gave.
type Rejection struct {
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
}
