package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"campaign-app/brief-service/internal/config"
	"campaign-app/brief-service/internal/models"
	"campaign-app/brief-service/internal/repository"
	"campaign-app/brief-service/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BriefService interface {
	CreateBrief(ctx context.Context, brief *models.Brief) error
	UpdateBrief(ctx context.Context, id primitive.ObjectID, updated *models.Brief) error
	DeleteBrief(ctx context.Context, id primitive.ObjectID) error
	GetBriefByID(ctx context.Context, id primitive.ObjectID) (*models.Brief, error)
	GetAllBriefs(ctx context.Context) ([]models.Brief, error)
	GetBriefsByStatus(ctx context.Context, status models.WorkflowStatus) ([]models.Brief, error)
	AcceptBrief(ctx context.Context, id primitive.ObjectID, acceptorName, acceptorEmail string) (*models.Brief, error)
	UnlockBrief(ctx context.Context, id primitive.ObjectID) error
	ClearAcceptance(ctx context.Context, id primitive.ObjectID) error
	SetWorkflowStatus(ctx context.Context, id primitive.ObjectID, status models.WorkflowStatus) error
}

// DashboardCache инвалидируется после каждой мутации брифов или сообщений
type DashboardCache interface {
	Invalidate(ctx context.Context)
}

type briefService struct {
	repo     repository.BriefRepository
	messages repository.MessageRepository
	notifier Notifier
	cache    DashboardCache
	cfg      *config.Config
	locks    briefLocker
}

func NewBriefService(repo repository.BriefRepository, messages repository.MessageRepository, notifier Notifier, cache DashboardCache, cfg *config.Config) BriefService {
	return &briefService{
		repo:     repo,
		messages: messages,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
	}
}

// briefLocker сериализует read-modify-write по одному брифу.
// Операции над разными брифами идут параллельно.
type briefLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *briefLocker) lock(id primitive.ObjectID) *sync.Mutex {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id.Hex()]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id.Hex()] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}

func (s *briefService) CreateBrief(ctx context.Context, brief *models.Brief) error {
	if err := brief.Validate(); err != nil {
		return err
	}
	brief.WorkflowStatus = models.StatusDraft
	brief.IsLocked = false
	brief.Acceptance = nil

	if err := s.repo.Create(ctx, brief); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UpdateBrief сохраняет правку содержимого. Это «content edit» в смысле
// правила сверки блокировки: редактирование принятого-и-изменённого брифа
// снимает замок, смена статуса сама по себе — нет.
func (s *briefService) UpdateBrief(ctx context.Context, id primitive.ObjectID, updated *models.Brief) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	m := s.locks.lock(id)
	defer m.Unlock()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	existing.Title = updated.Title
	existing.ServiceLevel = updated.ServiceLevel
	if updated.Fields != nil {
		existing.Fields = updated.Fields
	}

	reconcileLock(existing, true)

	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *briefService) DeleteBrief(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// Каскад: сообщения живут только вместе с брифом
	if err := s.messages.DeleteByBrief(ctx, id); err != nil {
		log.Printf("Failed to delete messages for brief %s: %v", id.Hex(), err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *briefService) GetBriefByID(ctx context.Context, id primitive.ObjectID) (*models.Brief, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *briefService) GetAllBriefs(ctx context.Context) ([]models.Brief, error) {
	return s.repo.GetAll(ctx)
}

func (s *briefService) GetBriefsByStatus(ctx context.Context, status models.WorkflowStatus) ([]models.Brief, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}
	return s.repo.GetByStatus(ctx, status)
}

// AcceptBrief принимает бриф от имени представителя министерства.
// Повторный вызов перезаписывает отметку о принятии и шлёт новое письмо.
func (s *briefService) AcceptBrief(ctx context.Context, id primitive.ObjectID, acceptorName, acceptorEmail string) (*models.Brief, error) {
	acceptorName = strings.TrimSpace(acceptorName)
	acceptorEmail = strings.TrimSpace(acceptorEmail)

	if acceptorName == "" {
		return nil, &models.ValidationError{Field: "acceptor_name", Message: "please enter your name"}
	}
	if !utils.IsValidEmail(acceptorEmail) {
		return nil, &models.ValidationError{Field: "acceptor_email", Message: "please enter a valid email address"}
	}

	m := s.locks.lock(id)
	defer m.Unlock()

	brief, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	brief.WorkflowStatus = models.StatusAccepted
	brief.IsLocked = true
	brief.Acceptance = &models.Acceptance{
		AcceptedByName:  acceptorName,
		AcceptedByEmail: acceptorEmail,
		AcceptedAt:      now,
	}

	if err := s.repo.Update(ctx, brief); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	// Уведомление — последний шаг, его провал не отменяет принятие
	s.sendAcceptanceNotification(brief, acceptorName, acceptorEmail, now)

	return brief, nil
}

// UnlockBrief снимает замок перед правками: отметка о принятии очищается,
// бриф возвращается на повторное согласование. Письмо не отправляется.
func (s *briefService) UnlockBrief(ctx context.Context, id primitive.ObjectID) error {
	m := s.locks.lock(id)
	defer m.Unlock()

	brief, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	brief.IsLocked = false
	brief.Acceptance = nil
	brief.WorkflowStatus = models.StatusPendingAcceptance

	if err := s.repo.Update(ctx, brief); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ClearAcceptance принудительно требует повторного принятия, не трогая замок
func (s *briefService) ClearAcceptance(ctx context.Context, id primitive.ObjectID) error {
	m := s.locks.lock(id)
	defer m.Unlock()

	brief, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	brief.Acceptance = nil
	brief.WorkflowStatus = models.StatusPendingAcceptance

	if err := s.repo.Update(ctx, brief); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *briefService) SetWorkflowStatus(ctx context.Context, id primitive.ObjectID, status models.WorkflowStatus) error {
	if !status.Valid() {
		return models.ErrInvalidStatus
	}

	m := s.locks.lock(id)
	defer m.Unlock()

	brief, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	brief.WorkflowStatus = status
	reconcileLock(brief, false)

	if err := s.repo.Update(ctx, brief); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// reconcileLock сверяет замок после сохранения. Правка содержимого снимает
// замок (бриф нужно принимать заново), чистая смена статуса замок никогда
// не снимает, но выставляет его при переводе в accepted.
func reconcileLock(brief *models.Brief, contentEdited bool) {
	if contentEdited {
		if brief.IsLocked {
			brief.IsLocked = false
		}
		return
	}
	if brief.WorkflowStatus == models.StatusAccepted && !brief.IsLocked {
		brief.IsLocked = true
	}
}

func (s *briefService) sendAcceptanceNotification(brief *models.Brief, acceptorName, acceptorEmail string, acceptedAt time.Time) {
	to := s.cfg.NotificationRecipient()
	if to == "" {
		log.Println("No recipient email configured for acceptance notifications")
		return
	}

	subject := fmt.Sprintf("Campaign Brief Accepted: %s", brief.Title)
	body := fmt.Sprintf(
		"The campaign brief %q has been accepted by %s (%s) on %s.\n\nView brief: %s/briefs/%s\n",
		brief.Title,
		acceptorName,
		acceptorEmail,
		acceptedAt.Format("January 2, 2006 at 3:04 pm"),
		s.cfg.PublicBaseURL,
		brief.ID.Hex(),
	)

	if err := s.notifier.Send(to, subject, body, ""); err != nil {
		log.Printf("Failed to send acceptance notification to %s: %v", to, err)
	}
}

func (s *briefService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
