// Package actor carries the authenticated caller through service calls.
//
// Handlers resolve the Actor from the request context once and pass it
// explicitly; services never look identity up on their own.
package actor

import (
	"context"
	"slices"

	"boatbook/shared/constant"
	"boatbook/shared/failure"
)

type Actor struct {
	UserID string
	Role   string
}

func New(userID, role string) Actor {
	return Actor{UserID: userID, Role: role}
}

// FromContext returns the actor stored by the auth middleware.
func FromContext(ctx context.Context) (Actor, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if userID == "" {
		return Actor{}, failure.Unauthorized("missing authenticated user")
	}

	return Actor{UserID: userID, Role: role}, nil
}

// IsStaff reports whether the actor may act on other users' bookings.
func (a Actor) IsStaff() bool {
	return a.Is(constant.RoleAdmin, constant.RoleOperations)
}

func (a Actor) Is(roles ...string) bool {
	return slices.Contains(roles, a.Role)
}

// Owns reports whether the actor is the given user.
func (a Actor) Owns(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}

// CanAccess allows owners and staff.
func (a Actor) CanAccess(ownerID string) bool {
	return a.Owns(ownerID) || a.IsStaff()
}
