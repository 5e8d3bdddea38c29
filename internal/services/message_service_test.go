package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"campaign-app/brief-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestMessageService() (*MessageService, *fakeBriefRepo, *fakeMessageRepo, *fakeNotifier) {
	briefs := newFakeBriefRepo()
	messages := newFakeMessageRepo()
	notifier := &fakeNotifier{}
	svc := NewMessageService(messages, briefs, notifier, nil, testConfig())
	return svc, briefs, messages, notifier
}

func TestPostMessage_CreatesAndNotifies(t *testing.T) {
	svc, briefs, _, notifier := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "Gala Night", WorkflowStatus: models.StatusDraft})

	view, err := svc.PostMessage(ctx, id, "Robin", "robin@example.com", "Looks great!", false)
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}

	if view.TimeAgo != "just now" {
		t.Errorf("time_ago = %q, want just now", view.TimeAgo)
	}
	if view.IsRead {
		t.Error("new message must start unread")
	}
	if view.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	if notifier.count() != 1 {
		t.Fatalf("notification attempts = %d, want 1", notifier.count())
	}
	if notifier.sent[0].ReplyTo != "Robin <robin@example.com>" {
		t.Errorf("reply-to = %q", notifier.sent[0].ReplyTo)
	}
}

func TestPostMessage_ValidationOrder(t *testing.T) {
	svc, briefs, repo, notifier := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "Gala Night", WorkflowStatus: models.StatusDraft})

	cases := []struct {
		name      string
		author    string
		email     string
		body      string
		wantField string
	}{
		{"all empty reports name first", "", "", "", "author_name"},
		{"whitespace name", "   ", "a@b.example", "hi", "author_name"},
		{"empty email", "Robin", "", "hi", "author_email"},
		{"malformed email", "Robin", "not-an-email", "hi", "author_email"},
		{"whitespace body", "Robin", "robin@example.com", "   ", "body"},
	}

	for _, tc := range cases {
		_, err := svc.PostMessage(ctx, id, tc.author, tc.email, tc.body, false)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: err = %v, want ValidationError", tc.name, err)
		}
		if vErr.Field != tc.wantField {
			t.Errorf("%s: field = %s, want %s", tc.name, vErr.Field, tc.wantField)
		}
	}

	count, _ := repo.CountByBrief(ctx, id)
	if count != 0 {
		t.Errorf("messages persisted on validation failure: %d", count)
	}
	if notifier.count() != 0 {
		t.Errorf("notifications sent on validation failure: %d", notifier.count())
	}
}

func TestPostMessage_BriefNotFound(t *testing.T) {
	svc, _, _, _ := newTestMessageService()

	_, err := svc.PostMessage(context.Background(), primitive.NewObjectID(), "Robin", "robin@example.com", "hi", false)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostMessage_NotifyToggleOff(t *testing.T) {
	briefs := newFakeBriefRepo()
	messages := newFakeMessageRepo()
	notifier := &fakeNotifier{}
	cfg := testConfig()
	cfg.NotifyOnMessage = false
	svc := NewMessageService(messages, briefs, notifier, nil, cfg)

	id := seedBrief(t, briefs, models.Brief{Title: "Quiet", WorkflowStatus: models.StatusDraft})

	if _, err := svc.PostMessage(context.Background(), id, "Robin", "robin@example.com", "hi", false); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if notifier.count() != 0 {
		t.Errorf("notification sent with toggle off: %d", notifier.count())
	}
}

func TestListMessages_InternalVisibility(t *testing.T) {
	svc, briefs, _, _ := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "B3", WorkflowStatus: models.StatusDraft})

	if _, err := svc.PostMessage(ctx, id, "Public One", "one@example.com", "first", false); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := svc.PostMessage(ctx, id, "Staff", "staff@example.com", "internal note", true); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := svc.PostMessage(ctx, id, "Public Two", "two@example.com", "second", false); err != nil {
		t.Fatalf("post: %v", err)
	}

	public, err := svc.ListMessages(ctx, id, false)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("public view = %d messages, want 2", len(public))
	}
	for _, msg := range public {
		if msg.IsInternal {
			t.Errorf("internal message leaked to public view: %+v", msg.Message)
		}
	}
	if public[0].Body != "first" || public[1].Body != "second" {
		t.Errorf("public order wrong: %q, %q", public[0].Body, public[1].Body)
	}

	all, err := svc.ListMessages(ctx, id, true)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("reviewer view = %d messages, want 3", len(all))
	}
	if all[0].Body != "first" || all[1].Body != "internal note" || all[2].Body != "second" {
		t.Errorf("reviewer order wrong: %q, %q, %q", all[0].Body, all[1].Body, all[2].Body)
	}
}

func TestListMessages_AscendingOrder(t *testing.T) {
	svc, briefs, _, _ := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "Ordered", WorkflowStatus: models.StatusDraft})

	bodies := []string{"one", "two", "three", "four", "five"}
	for _, body := range bodies {
		if _, err := svc.PostMessage(ctx, id, "Robin", "robin@example.com", body, false); err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
	}

	views, err := svc.ListMessages(ctx, id, false)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(views) != len(bodies) {
		t.Fatalf("got %d messages, want %d", len(views), len(bodies))
	}
	for i, view := range views {
		if view.Body != bodies[i] {
			t.Errorf("position %d = %q, want %q", i, view.Body, bodies[i])
		}
		if i > 0 && view.Seq <= views[i-1].Seq {
			t.Errorf("seq not increasing at %d", i)
		}
	}
}

func TestPostMessage_ConcurrentBothPersisted(t *testing.T) {
	svc, briefs, repo, _ := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "Busy", WorkflowStatus: models.StatusDraft})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PostMessage(ctx, id, "Robin", "robin@example.com", "hello", false); err != nil {
				t.Errorf("concurrent post: %v", err)
			}
		}()
	}
	wg.Wait()

	count, _ := repo.CountByBrief(ctx, id)
	if count != 10 {
		t.Errorf("persisted = %d, want 10", count)
	}
}

func TestMarkAllReadAndCounts(t *testing.T) {
	svc, briefs, _, _ := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "B", WorkflowStatus: models.StatusDraft})
	otherID := seedBrief(t, briefs, models.Brief{Title: "Other", WorkflowStatus: models.StatusDraft})

	for i := 0; i < 3; i++ {
		if _, err := svc.PostMessage(ctx, id, "Robin", "robin@example.com", "msg", false); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	if _, err := svc.PostMessage(ctx, otherID, "Robin", "robin@example.com", "msg", false); err != nil {
		t.Fatalf("post: %v", err)
	}

	unread, _ := svc.UnreadCount(ctx, id)
	if unread != 3 {
		t.Errorf("unread = %d, want 3", unread)
	}
	total, _ := svc.TotalUnreadCount(ctx)
	if total != 4 {
		t.Errorf("total unread = %d, want 4", total)
	}

	if err := svc.MarkAllRead(ctx, id); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}

	unread, _ = svc.UnreadCount(ctx, id)
	if unread != 0 {
		t.Errorf("unread after mark = %d, want 0", unread)
	}
	total, _ = svc.TotalUnreadCount(ctx)
	if total != 1 {
		t.Errorf("total unread after mark = %d, want 1 (other brief untouched)", total)
	}

	// Повторный вызов — no-op
	if err := svc.MarkAllRead(ctx, id); err != nil {
		t.Fatalf("second MarkAllRead: %v", err)
	}
}

func TestDeleteMessagesForBrief(t *testing.T) {
	svc, briefs, repo, _ := newTestMessageService()
	ctx := context.Background()

	id := seedBrief(t, briefs, models.Brief{Title: "A", WorkflowStatus: models.StatusDraft})
	otherID := seedBrief(t, briefs, models.Brief{Title: "B", WorkflowStatus: models.StatusDraft})

	for i := 0; i < 2; i++ {
		if _, err := svc.PostMessage(ctx, id, "R", "r@example.com", "x", false); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	if _, err := svc.PostMessage(ctx, otherID, "R", "r@example.com", "y", false); err != nil {
		t.Fatalf("post: %v", err)
	}

	if err := svc.DeleteMessagesForBrief(ctx, id); err != nil {
		t.Fatalf("DeleteMessagesForBrief: %v", err)
	}

	count, _ := repo.CountByBrief(ctx, id)
	if count != 0 {
		t.Errorf("messages left = %d, want 0", count)
	}
	otherCount, _ := repo.CountByBrief(ctx, otherID)
	if otherCount != 1 {
		t.Errorf("other brief's messages = %d, want 1", otherCount)
	}
}
