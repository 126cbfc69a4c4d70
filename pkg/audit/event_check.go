package audit

import "fmt"

// CheckEvent represents an access policy decision on a record
// operation. Handlers emit it when the policy denies a request, so
// denials stay visible even though no record operation took place.
type CheckEvent struct {
	Actor     string
	Role      string
	ClientIP  string
	Model     string
	Operation string
	Allowed   bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	outcome := "denied"
	if e.Allowed {
		outcome = "allowed"
	}
	return fmt.Sprintf("%s checked %s on %s: %s", e.Actor, e.Operation, e.Model, outcome)
}

func (e CheckEvent) Severity() Severity {
	if e.Allowed {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e CheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Allowed {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
			"role": e.Role,
		},
		SDIDModel: {
			"name": e.Model,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}
