package access

import "github.com/google/uuid"

// Action is the kind of operation a viewer attempts.
type Action string

const (
	ActionReadOwn             Action = "read-own"
	ActionReadOtherSummary    Action = "read-other-summary"
	ActionReadOtherFull       Action = "read-other-full"
	ActionWriteOwn            Action = "write-own"
	ActionWriteOtherRole      Action = "write-other-role"
	ActionCreateEvent         Action = "create-event"
	ActionWriteEvent          Action = "write-event"
	ActionReadDashboard       Action = "read-dashboard"
	ActionReadEvent           Action = "read-event"
	ActionToggleParticipation Action = "toggle-participation"
)

// TargetKind identifies the resource class an action applies to.
type TargetKind string

const (
	TargetMember    TargetKind = "member"
	TargetEvent     TargetKind = "event"
	TargetDashboard TargetKind = "dashboard"
)

var actionTargets = map[Action]TargetKind{
	ActionReadOwn:             TargetMember,
	ActionReadOtherSummary:    TargetMember,
	ActionReadOtherFull:       TargetMember,
	ActionWriteOwn:            TargetMember,
	ActionWriteOtherRole:      TargetMember,
	ActionCreateEvent:         TargetEvent,
	ActionWriteEvent:          TargetEvent,
	ActionReadEvent:           TargetEvent,
	ActionToggleParticipation: TargetEvent,
	ActionReadDashboard:       TargetDashboard,
}

// Viewer is the signed-in member as read from the table store for this decision.
// It must never be built from client-supplied role or region values.
type Viewer struct {
	ID              uuid.UUID
	Role            Role
	Region          string
	RegionalContact bool
}

// Target describes the resource of a decision.
//
// Region is the stored region of the resource; nil means national for events and
// the all-region view for dashboards. Missing marks a lookup that found no row.
// Payload, when set, is the state a write would produce.
type Target struct {
	Kind     TargetKind
	MemberID uuid.UUID
	Region   *string
	Missing  bool
	Payload  *Payload
}

// Payload is the region-bearing part of a proposed write.
type Payload struct {
	Region     *string
	Department string
}

// MemberTarget builds a target for a member row.
func MemberTarget(id uuid.UUID, region string) Target {
	return Target{Kind: TargetMember, MemberID: id, Region: regionPtr(region)}
}

// EventTarget builds a target for a stored event.
func EventTarget(region *string) Target {
	return Target{Kind: TargetEvent, Region: region}
}

// DashboardTarget builds a target for a dashboard; an empty region is the global view.
func DashboardTarget(region string) Target {
	return Target{Kind: TargetDashboard, Region: regionPtr(region)}
}

// MissingTarget builds a target for a lookup that found nothing.
func MissingTarget(kind TargetKind) Target {
	return Target{Kind: kind, Missing: true}
}

// WithPayload returns a copy of t carrying the proposed write.
func (t Target) WithPayload(region *string, department string) Target {
	t.Payload = &Payload{Region: region, Department: department}
	return t
}

func regionPtr(region string) *string {
	if region == "" {
		return nil
	}
	return &region
}
