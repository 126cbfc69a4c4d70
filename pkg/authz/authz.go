// Package authz implements the permission evaluator.
//
// The evaluator is a pure function over a model's access policy: given the
// acting role, the requested operation and optionally the candidate record,
// it returns allow or deny. It talks to no storage and holds no state, which
// keeps every rule unit-testable in isolation.
//
// Ownership is enforced in two phases. Before the candidate record is
// fetched, Allow is called without a record: it answers on role alone, so a
// request that could never succeed is rejected before paying for a storage
// read. Once the record is in hand, Allow is called again with it and the
// owner check becomes binding.
package authz

import (
	"github.com/modelbase/modelbase/pkg/schema"
)

// Decision carries one authorization question.
//
// Record is nil for pre-checks and for operations that never bind to a
// single record (list, create). Actor is the authenticated subject; an empty
// Actor always denies.
type Decision struct {
	Actor      string
	Role       string
	Operation  schema.Operation
	Policy     schema.AccessPolicy
	OwnerField string
	Record     schema.Record
}

// Allow evaluates the decision. Rules, in order:
//
//  1. No authenticated actor: deny.
//  2. No policy entry for the role: deny.
//  3. The role holds "all": allow, bypassing ownership.
//  4. The role holds the requested operation: for update and delete on a
//     model with an owner field, a nil record allows (the post-fetch call
//     decides) and a non-nil record allows only when its owner value equals
//     the actor. Everything else allows outright.
//  5. Otherwise: deny.
func Allow(d Decision) bool {
	if d.Actor == "" {
		return false
	}

	granted := d.Policy[d.Role]
	if len(granted) == 0 {
		return false
	}

	if d.Policy.Grants(d.Role, schema.OpAll) {
		return true
	}

	if !d.Policy.Grants(d.Role, d.Operation) {
		return false
	}

	if ownershipBound(d.Operation) && d.OwnerField != "" && d.Record != nil {
		owner, _ := d.Record[d.OwnerField].(string)
		return owner == d.Actor
	}

	return true
}

func ownershipBound(op schema.Operation) bool {
	return op == schema.OpUpdate || op == schema.OpDelete
}
