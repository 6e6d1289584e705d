package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// CtxActorKey holds the entity.Actor resolved for the request.
const CtxActorKey = "actor"

// Identity resolves the access-token and guest_id cookies into an Actor.
// It never rejects a request; handlers decide what each state may do.
func Identity(svc *application.IdentityService, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(helpers.AccessTokenCookie)
		guestID, _ := c.Cookie(helpers.GuestIDCookie)

		actor := svc.Resolve(c.Request.Context(), token, guestID)
		if actor.IsGuest() {
			// keep the cookie alive as long as the session
			cookies.SetGuestID(c, actor.GuestID, svc.GuestTTL)
		}
		c.Set(CtxActorKey, actor)
		c.Next()
	}
}

// EnsureGuest assigns a fresh guest identity to requests without one, so
// anonymous visitors can own tasks and categories.
func EnsureGuest(svc *application.IdentityService, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAnonymous() {
			c.Next()
			return
		}
		actor, err := svc.NewGuest(c.Request.Context())
		if err != nil {
			if svc.Logger != nil {
				svc.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("create guest identity failed")
			}
			c.Next()
			return
		}
		cookies.SetGuestID(c, actor.GuestID, svc.GuestTTL)
		c.Set(CtxActorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the resolved actor; ActorNone when Identity did not run.
func ActorFrom(c *gin.Context) entity.Actor {
	if v, ok := c.Get(CtxActorKey); ok {
		if a, ok := v.(entity.Actor); ok {
			return a
		}
	}
	return entity.Actor{}
}

// KeyByActor limits per user or guest, falling back to the client IP.
func KeyByActor() KeyFunc {
	return func(c *gin.Context) string {
		a := ActorFrom(c)
		switch {
		case a.IsUser():
			return "rl:user:" + strconv.FormatInt(a.UserID, 10)
		case a.IsGuest():
			return "rl:guest:" + a.GuestID
		}
		return "rl:anon:ip:" + ipFromCtx(c)
	}
}
