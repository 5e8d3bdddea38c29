package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"campaign-app/brief-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory замены репозиториев для тестов сервисов.

type fakeBriefRepo struct {
	mu     sync.Mutex
	briefs map[primitive.ObjectID]models.Brief
}

func newFakeBriefRepo() *fakeBriefRepo {
	return &fakeBriefRepo{briefs: make(map[primitive.ObjectID]models.Brief)}
}

func cloneBrief(b models.Brief) models.Brief {
	if b.Acceptance != nil {
		a := *b.Acceptance
		b.Acceptance = &a
	}
	return b
}

func (r *fakeBriefRepo) Create(_ context.Context, brief *models.Brief) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	brief.ID = primitive.NewObjectID()
	brief.CreatedAt = time.Now()
	brief.UpdatedAt = time.Now()
	r.briefs[brief.ID] = cloneBrief(*brief)
	return nil
}

func (r *fakeBriefRepo) Update(_ context.Context, brief *models.Brief) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	brief.UpdatedAt = time.Now()
	r.briefs[brief.ID] = cloneBrief(*brief)
	return nil
}

func (r *fakeBriefRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.briefs, id)
	return nil
}

func (r *fakeBriefRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	brief, ok := r.briefs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := cloneBrief(brief)
	return &copied, nil
}

func (r *fakeBriefRepo) GetAll(_ context.Context) ([]models.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.Brief, 0, len(r.briefs))
	for _, b := range r.briefs {
		result = append(result, cloneBrief(b))
	}
	return result, nil
}

func (r *fakeBriefRepo) GetByStatus(_ context.Context, status models.WorkflowStatus) ([]models.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Brief
	for _, b := range r.briefs {
		if b.WorkflowStatus == status {
			result = append(result, cloneBrief(b))
		}
	}
	return result, nil
}

func (r *fakeBriefRepo) GetRecentlyModified(_ context.Context, limit int64) ([]models.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.Brief, 0, len(r.briefs))
	for _, b := range r.briefs {
		result = append(result, cloneBrief(b))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeBriefRepo) CountByStatus(_ context.Context, status models.WorkflowStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.briefs {
		if b.WorkflowStatus == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeBriefRepo) CountByServiceLevel(_ context.Context, level models.ServiceLevel) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.briefs {
		if b.ServiceLevel == level {
			count++
		}
	}
	return count, nil
}

func (r *fakeBriefRepo) GetTitles(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if b, ok := r.briefs[id]; ok {
			titles[id] = b.Title
		}
	}
	return titles, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
	seq      int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Insert(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.ID = primitive.NewObjectID()
	msg.Seq = r.seq
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) GetByBrief(_ context.Context, briefID primitive.ObjectID, includeInternal bool) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Message
	for _, m := range r.messages {
		if m.BriefID != briefID {
			continue
		}
		if m.IsInternal && !includeInternal {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *fakeMessageRepo) GetRecent(_ context.Context, limit int64) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.Message, len(r.messages))
	copy(result, r.messages)
	sort.Slice(result, func(i, j int) bool { return result[i].Seq > result[j].Seq })
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeMessageRepo) CountByBrief(_ context.Context, briefID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.BriefID == briefID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, briefID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.BriefID == briefID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnreadTotal(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) MarkAllRead(_ context.Context, briefID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].BriefID == briefID {
			r.messages[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) DeleteByBrief(_ context.Context, briefID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.BriefID != briefID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
	ReplyTo string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) Send(to, subject, body, replyTo string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body, ReplyTo: replyTo})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
