// Package access decides what a signed-in member may see and change.
//
// Evaluate is a pure function of (viewer, action, target). It never performs I/O:
// for permitted reads that must be narrowed it returns the filter the caller has to
// apply to its own query.
package access

import "github.com/ja-alumni/erp/internal/geo"

// facets are the capability rows a viewer holds. They are additive: a member
// flagged as regional contact holds both the member and regional contact rows.
type facets struct {
	regionalContact bool
	committee       bool
	lead            bool
}

func resolve(v Viewer) (facets, bool) {
	if !v.Role.Valid() {
		return facets{}, false
	}
	return facets{
		regionalContact: v.RegionalContact || v.Role.AtLeast(RoleRegionalContact),
		committee:       v.Role.AtLeast(RoleCommittee),
		lead:            v.Role == RoleCommitteeLead,
	}, true
}

// Evaluate decides whether viewer may perform action on target.
func Evaluate(viewer Viewer, action Action, target Target) Decision {
	kind, ok := actionTargets[action]
	if !ok || kind != target.Kind {
		return deny(ReasonUnknownAction)
	}

	if target.Payload != nil && !target.Payload.valid() {
		return Decision{Outcome: OutcomeInvalidTarget, Reason: ReasonInvalidTarget}
	}
	if action == ActionCreateEvent && target.Payload == nil {
		return Decision{Outcome: OutcomeInvalidTarget, Reason: ReasonInvalidTarget}
	}

	f, known := resolve(viewer)

	var d Decision
	if target.Missing {
		d = missing(target.Kind)
	} else {
		d = decide(f, viewer, action, target)
	}

	if !known {
		d.Outcome = OutcomeUnknownRole
	}
	return d
}

// missing reports a lookup miss. Every tier may list members and events, so the
// miss is revealed for those classes; any other class gets an ordinary denial.
func missing(kind TargetKind) Decision {
	switch kind {
	case TargetMember, TargetEvent:
		return deny(ReasonNotFound)
	default:
		return deny(ReasonInsufficientRole)
	}
}

func decide(f facets, v Viewer, action Action, t Target) Decision {
	switch action {
	case ActionReadOwn, ActionWriteOwn:
		if t.MemberID != v.ID {
			return deny(ReasonNotOwner)
		}
		return allow()

	case ActionReadOtherSummary:
		return allow()

	case ActionReadOtherFull:
		if f.committee {
			return allow()
		}
		if f.regionalContact {
			if sameRegion(v.Region, t.Region) {
				return allowInRegion(v.Region)
			}
			return deny(ReasonRegionMismatch)
		}
		return deny(ReasonInsufficientRole)

	case ActionWriteOtherRole:
		if !f.lead {
			return deny(ReasonInsufficientRole)
		}
		if t.MemberID == v.ID {
			return deny(ReasonSelfRoleChange)
		}
		return allow()

	case ActionCreateEvent:
		return regionalWrite(f, v, t.Payload.Region)

	case ActionWriteEvent:
		if d := regionalWrite(f, v, t.Region); !d.Allowed {
			return d
		}
		if t.Payload != nil {
			return regionalWrite(f, v, t.Payload.Region)
		}
		return allow()

	case ActionReadDashboard:
		if t.Region == nil {
			if f.committee {
				return allow()
			}
			return deny(ReasonInsufficientRole)
		}
		if f.committee {
			return allowInRegion(*t.Region)
		}
		if f.regionalContact {
			if sameRegion(v.Region, t.Region) {
				return allowInRegion(v.Region)
			}
			return deny(ReasonRegionMismatch)
		}
		return deny(ReasonInsufficientRole)

	case ActionReadEvent, ActionToggleParticipation:
		// The calendar is network-wide; registration only requires visibility.
		return allow()
	}

	return deny(ReasonUnknownAction)
}

// regionalWrite applies the event-management rows to one region: national (nil)
// requires the committee, a region requires the committee or a regional contact
// of that same region.
func regionalWrite(f facets, v Viewer, region *string) Decision {
	if f.committee {
		return allow()
	}
	if !f.regionalContact {
		return deny(ReasonInsufficientRole)
	}
	if region == nil {
		return deny(ReasonInsufficientRole)
	}
	if !sameRegion(v.Region, region) {
		return deny(ReasonRegionMismatch)
	}
	return allow()
}

func sameRegion(viewerRegion string, target *string) bool {
	return viewerRegion != "" && target != nil && *target == viewerRegion
}

// valid checks the region/department invariant of a proposed write.
func (p *Payload) valid() bool {
	if p.Region == nil {
		return p.Department == ""
	}
	return geo.ValidRegion(*p.Region) && geo.DepartmentBelongs(*p.Region, p.Department)
}
