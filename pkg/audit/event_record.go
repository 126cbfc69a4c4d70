package audit

import "fmt"

// RecordEvent represents a CRUD operation performed on the records of
// a published model. List operations carry no record ID.
type RecordEvent struct {
	Actor        string
	Role         string
	ClientIP     string
	Model        string
	RecordID     string
	Operation    string // "create", "read", "update", "delete", "list"
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return "record"
}

func (e RecordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s %s", e.Actor, pastTense(e.Operation), e.subject())
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.Actor, e.Operation, e.subject())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordEvent) subject() string {
	if e.RecordID == "" {
		return fmt.Sprintf("records in %s", e.Model)
	}
	return fmt.Sprintf("record %s in %s", e.RecordID, e.Model)
}

func (e RecordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RecordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
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
		},
	}
	if e.RecordID != "" {
		sd[SDIDSubject] = map[string]string{"record": e.RecordID}
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
