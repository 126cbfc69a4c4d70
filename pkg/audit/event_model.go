package audit

import "fmt"

// ModelEvent represents a change to a model declaration: saving a
// draft, publishing, or deleting it.
type ModelEvent struct {
	Actor        string
	ClientIP     string
	Model        string
	Operation    string // "save", "publish", "delete"
	Success      bool
	ErrorMessage string
}

func (e ModelEvent) MessageID() string {
	return "model"
}

func (e ModelEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s model %s", e.Actor, pastTense(e.Operation), e.Model)
	}
	msg := fmt.Sprintf("%s tried to %s model %s", e.Actor, e.Operation, e.Model)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ModelEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ModelEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ModelEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDModel: {
			"name": e.Model,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

func pastTense(op string) string {
	switch op {
	case "save":
		return "saved"
	case "publish":
		return "published"
	case "read":
		return "read"
	case "list":
		return "listed"
	}
	// create, update, delete
	return op + "d"
}
