package application

import (
	"context"
	"testing"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/pkg/mailer"
)

func TestFollowIdempotentWithSingleNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	created, err := env.social.Follow(ctx, alice, bob.UserID)
	if err != nil || !created {
		t.Fatalf("first follow: created=%v err=%v", created, err)
	}
	created, err = env.social.Follow(ctx, alice, bob.UserID)
	if err != nil || created {
		t.Fatalf("second follow: created=%v err=%v", created, err)
	}

	ok, err := env.social.IsFollowing(ctx, alice.UserID, bob.UserID)
	if err != nil || !ok {
		t.Fatalf("is_following = %v, %v", ok, err)
	}
	followers, err := env.social.Followers(ctx, bob.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(followers) != 1 || followers[0].Username != "alice" {
		t.Errorf("followers = %+v", followers)
	}

	notes, err := env.notifications.List(ctx, bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	n := notes[0]
	if n.Type != entity.NotificationFollow || n.SenderID == nil || *n.SenderID != alice.UserID || n.Read {
		t.Errorf("notification = %+v", n)
	}
	if n.Message != "alice started following you." {
		t.Errorf("message = %q", n.Message)
	}
	if n.Sender == nil || n.Sender.Username != "alice" {
		t.Errorf("sender = %+v", n.Sender)
	}

	if len(env.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(env.events.events))
	}
	ev, ok := env.events.events[0].(mailer.FollowEvent)
	if !ok || ev.RecipientEmail != "bob@example.com" || ev.FollowerName != "alice" {
		t.Errorf("event = %#v", env.events.events[0])
	}
}

func TestFollowRejections(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	guest := env.guest(t)
	ctx := context.Background()

	_, err := env.social.Follow(ctx, alice, alice.UserID)
	wantErr(t, err, ErrSelfFollow)
	_, err = env.social.Follow(ctx, alice, 9999)
	wantErr(t, err, ErrUserNotFound)
	_, err = env.social.Follow(ctx, guest, alice.UserID)
	wantErr(t, err, ErrUnauthenticated)

	notes, err := env.notifications.List(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 {
		t.Errorf("self-follow must not notify: %+v", notes)
	}
}

func TestUnfollowWithoutEdgeIsNoop(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	if err := env.social.Unfollow(ctx, alice, bob.UserID); err != nil {
		t.Fatalf("unfollow without edge: %v", err)
	}
	ok, err := env.social.IsFollowing(ctx, alice.UserID, bob.UserID)
	if err != nil || ok {
		t.Fatalf("is_following = %v, %v", ok, err)
	}

	if _, err := env.social.Follow(ctx, alice, bob.UserID); err != nil {
		t.Fatal(err)
	}
	if err := env.social.Unfollow(ctx, alice, bob.UserID); err != nil {
		t.Fatal(err)
	}
	ok, err = env.social.IsFollowing(ctx, alice.UserID, bob.UserID)
	if err != nil || ok {
		t.Fatalf("after unfollow is_following = %v, %v", ok, err)
	}
}

func TestFeedShowsOnlyPublicTasksOfFollowed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	ctx := context.Background()

	feed, err := env.social.Feed(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 0 {
		t.Fatalf("empty following should give empty feed, got %d", len(feed))
	}

	if _, err := env.social.Follow(ctx, alice, bob.UserID); err != nil {
		t.Fatal(err)
	}
	plans, err := env.categories.Create(ctx, bob, "Plans", "#2ecc71")
	if err != nil {
		t.Fatal(err)
	}
	env.task(t, bob, CreateTaskInput{Title: "Private plan", Date: "2024-02-01"})
	env.task(t, bob, CreateTaskInput{Title: "Public plan", Date: "2024-02-01", IsPublic: true, CategoryID: &plans.ID})
	env.task(t, bob, CreateTaskInput{Title: "Later plan", Date: "2024-03-01", IsPublic: true})
	env.task(t, carol, CreateTaskInput{Title: "Carol public", Date: "2024-02-01", IsPublic: true})

	feed, err = env.social.Feed(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed has %d items, want 2", len(feed))
	}
	if feed[0].Task.Title != "Later plan" || feed[1].Task.Title != "Public plan" {
		t.Errorf("feed order = %s, %s", feed[0].Task.Title, feed[1].Task.Title)
	}
	item := feed[1]
	if item.User.Username != "bob" || item.User.ID != bob.UserID {
		t.Errorf("owner summary = %+v", item.User)
	}
	if item.Category == nil || item.Category.Name != "Plans" || item.Category.Color != "#2ecc71" {
		t.Errorf("category summary = %+v", item.Category)
	}
	if feed[0].Category != nil {
		t.Errorf("uncategorised task has category %+v", feed[0].Category)
	}

	guestFeed, err := env.social.Feed(ctx, env.guest(t))
	if err != nil || len(guestFeed) != 0 {
		t.Errorf("guest feed = %v, %v", guestFeed, err)
	}
}

func TestExploreUsers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.register(t, "carol")
	ctx := context.Background()

	if _, err := env.social.Follow(ctx, alice, bob.UserID); err != nil {
		t.Fatal(err)
	}
	out, err := env.social.ExploreUsers(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Following) != 1 || out.Following[0].Username != "bob" {
		t.Errorf("following = %+v", out.Following)
	}
	if len(out.Recommended) != 1 || out.Recommended[0].Username != "carol" {
		t.Errorf("recommended = %+v", out.Recommended)
	}

	anon, err := env.social.ExploreUsers(ctx, entity.Actor{})
	if err != nil || len(anon.Following) != 0 || len(anon.Recommended) != 0 {
		t.Errorf("anonymous explore = %+v, %v", anon, err)
	}
}
