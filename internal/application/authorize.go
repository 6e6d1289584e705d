package application

import "github.com/oksasatya/today-todo/internal/domain/entity"

// Decision is the result of an ownership check.
type Decision int

const (
	Authorized Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Err maps the decision onto the sentinel errors; Authorized yields nil.
func (d Decision) Err() error {
	switch d {
	case Authorized:
		return nil
	case Unauthenticated:
		return ErrUnauthenticated
	default:
		return ErrForbidden
	}
}

// Authorize checks that actor owns a record. A guest never matches a user-owned
// record and vice versa.
func Authorize(actor entity.Actor, owner entity.Owner) Decision {
	if actor.IsAnonymous() {
		return Unauthenticated
	}
	if owner.IsZero() || !actor.Owner().Equal(owner) {
		return Forbidden
	}
	return Authorized
}

// RequireUser returns the user id of actor or ErrUnauthenticated.
func RequireUser(actor entity.Actor) (int64, error) {
	if !actor.IsUser() {
		return 0, ErrUnauthenticated
	}
	return actor.UserID, nil
}
