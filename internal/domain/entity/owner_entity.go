package entity

// Owner identifies who owns a task or category: either a registered user
// or a guest identity bound to an anonymous session. Exactly one is set.
type Owner struct {
	UserID  int64
	GuestID string
}

func UserOwner(id int64) Owner { return Owner{UserID: id} }
func GuestOwner(id string) Owner { return Owner{GuestID: id} }
func (o Owner) IsZero() bool { return o.UserID == 0 && o.GuestID == "" }
func (o Owner) IsGuest() bool { return o.UserID == 0 && o.GuestID != "" }
func (o Owner) Equal(other Owner) bool { return o == other }

// ActorKind is the outcome of resolving a request to an identity.
type ActorKind int

const (
	ActorNone ActorKind = iota
	ActorGuest
	ActorUser
)

func (k ActorKind) String() string {
	switch k {
	case ActorGuest:
		return "guest"
	case ActorUser:
		return "user"
	default:
		return "none"
	}
}

// Actor is the identity a request acts as.
type Actor struct {
	Kind    ActorKind
	UserID  int64
	GuestID string
}

func UserActor(id int64) Actor { return Actor{Kind: ActorUser, UserID: id} }
func GuestActor(id string) Actor { return Actor{Kind: ActorGuest, GuestID: id} }
func (a Actor) IsUser() bool { return a.Kind == ActorUser && a.UserID != 0 }
func (a Actor) IsGuest() bool { return a.Kind == ActorGuest && a.GuestID != "" }
func (a Actor) IsAnonymous() bool { return !a.IsUser() && !a.IsGuest() }

// Owner returns the ownership key for records created by this actor.
// The zero Owner is returned when the actor has no identity.
func (a Actor) Owner() Owner {
	switch {
	case a.IsUser():
		return UserOwner(a.UserID)
	case a.IsGuest():
		return GuestOwner(a.GuestID)
	default:
		return Owner{}
	}
}
