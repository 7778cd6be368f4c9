// Package permission defines the closed resource/action grid used to
// authorize administrative operations.
//
// Resources and actions are closed enumerations: an unknown resource or
// action never grants anything, and an absent matrix entry evaluates to
// false. There is no inheritance between resources; every resource/action
// pair is independent.
package permission

import (
	"fmt"
	"strings"
)

// Resource identifies a protected area of the back office.
type Resource string

const (
	Products  Resource = "products"
	Reviews   Resource = "reviews"
	Users     Resource = "users"
	Analytics Resource = "analytics"
)

// Action identifies an operation on a [Resource].
type Action string

const (
	Create  Action = "create"
	Read    Action = "read"
	Update  Action = "update"
	Delete  Action = "delete"
	Approve Action = "approve"
)

// resourceActions enumerates the valid actions per resource. The grid is the
// schema of every account's permission matrix; entries outside it are
// rejected at validation time and denied at evaluation time.
var resourceActions = map[Resource][]Action{
	Products:  {Create, Read, Update, Delete},
	Reviews:   {Create, Read, Update, Delete, Approve},
	Users:     {Create, Read, Update, Delete},
	Analytics: {Read},
}

// Resources returns the closed resource set in a stable order.
func Resources() []Resource {
	return []Resource{Products, Reviews, Users, Analytics}
}

// ActionsFor returns the valid actions for a resource, or nil for an
// unknown resource.
func ActionsFor(r Resource) []Action {
	return resourceActions[r]
}

// Valid reports whether the resource/action pair exists in the grid.
func Valid(r Resource, a Action) bool {
	for _, action := range resourceActions[r] {
		if action == a {
			return true
		}
	}
	return false
}

// Ref names a single resource/action pair, e.g. "products:delete". Guards
// declare their requirements as Refs and forbidden responses enumerate them.
type Ref struct {
	Resource Resource
	Action   Action
}

func (r Ref) String() string {
	return string(r.Resource) + ":" + string(r.Action)
}

// ParseRef parses a "resource:action" string into a [Ref]. The pair must
// exist in the grid.
func ParseRef(s string) (Ref, error) {
	res, act, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, fmt.Errorf("malformed permission %q", s)
	}
	ref := Ref{Resource: Resource(res), Action: Action(act)}
	if !Valid(ref.Resource, ref.Action) {
		return Ref{}, fmt.Errorf("unknown permission %q", s)
	}
	return ref, nil
}

// MustRef is ParseRef for package-level declarations; it panics on a
// malformed or unknown pair.
func MustRef(s string) Ref {
	ref, err := ParseRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// Matrix is a per-account mapping of resource to allowed actions. A nil
// matrix denies everything.
type Matrix map[Resource]map[Action]bool

// Allows reports the literal boolean stored for the pair, defaulting to
// false when the resource or action is absent.
func (m Matrix) Allows(r Resource, a Action) bool {
	actions, ok := m[r]
	if !ok {
		return false
	}
	return actions[a]
}

// Set stores an explicit grant or denial. Pairs outside the grid are
// ignored rather than stored, keeping the matrix shape closed.
func (m Matrix) Set(r Resource, a Action, allowed bool) {
	if !Valid(r, a) {
		return
	}
	actions, ok := m[r]
	if !ok {
		actions = make(map[Action]bool)
		m[r] = actions
	}
	actions[a] = allowed
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for res, actions := range m {
		dup := make(map[Action]bool, len(actions))
		for act, allowed := range actions {
			dup[act] = allowed
		}
		out[res] = dup
	}
	return out
}

// Defaults returns the matrix assigned to newly created accounts: full
// product control, review management without creation, no user management,
// and read-only analytics.
func Defaults() Matrix {
	return Matrix{
		Products: {Create: true, Read: true, Update: true, Delete: true},
		Reviews:  {Create: false, Read: true, Update: true, Delete: true, Approve: true},
		Users:    {Create: false, Read: false, Update: false, Delete: false},
		Analytics: {
			Read: true,
		},
	}
}
