package access

// Outcome is the variant of a decision.
type Outcome string

const (
	OutcomeAllowed       Outcome = "allowed"
	OutcomeDenied        Outcome = "denied"
	OutcomeUnknownRole   Outcome = "unknown_role"
	OutcomeInvalidTarget Outcome = "invalid_target"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonRegionMismatch   Reason = "region_mismatch"
	ReasonNotOwner         Reason = "not_owner"
	ReasonSelfRoleChange   Reason = "self_role_change"
	ReasonNotFound         Reason = "not_found"
	ReasonInvalidTarget    Reason = "invalid_target"
	ReasonUnknownAction    Reason = "unknown_action"
)

// ScopeFieldRegion is the only field a scope filter constrains.
const ScopeFieldRegion = "region"

// ScopeFilter is an equality predicate the caller must apply to the query it issues.
type ScopeFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Decision is the result of a policy evaluation.
//
// Allowed is authoritative. Outcome is OutcomeUnknownRole whenever the viewer's
// stored role was outside the enumeration; Allowed then reflects the member tier.
type Decision struct {
	Allowed bool
	Outcome Outcome
	Scope   *ScopeFilter
	Reason  Reason
}

// RegionScope returns the scoped region, or "" when the decision carries no scope.
func (d Decision) RegionScope() string {
	if d.Scope == nil || d.Scope.Field != ScopeFieldRegion {
		return ""
	}
	return d.Scope.Value
}

func allow() Decision {
	return Decision{Allowed: true, Outcome: OutcomeAllowed}
}

func allowInRegion(region string) Decision {
	d := allow()
	d.Scope = &ScopeFilter{Field: ScopeFieldRegion, Value: region}
	return d
}

func deny(reason Reason) Decision {
	return Decision{Outcome: OutcomeDenied, Reason: reason}
}

// DeniedError carries a refusal through service layers that return errors.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return "access denied: " + string(e.Decision.Reason)
}

// Err returns nil for an allowed decision and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Decision: d}
}
