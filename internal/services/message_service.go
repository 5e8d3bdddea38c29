package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"campaign-app/brief-service/internal/config"
	"campaign-app/brief-service/internal/models"
	"campaign-app/brief-service/internal/repository"
	"campaign-app/brief-service/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService ведёт переписку по брифу между командой коммуникаций
// и представителями министерства.
type MessageService struct {
	repo     repository.MessageRepository
	briefs   repository.BriefRepository
	notifier Notifier
	cache    DashboardCache
	cfg      *config.Config
}

func NewMessageService(repo repository.MessageRepository, briefs repository.BriefRepository, notifier Notifier, cache DashboardCache, cfg *config.Config) *MessageService {
	return &MessageService{
		repo:     repo,
		briefs:   briefs,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
	}
}

// PostMessage добавляет сообщение в обсуждение брифа.
// Поля проверяются по порядку: имя, email, текст.
func (s *MessageService) PostMessage(ctx context.Context, briefID primitive.ObjectID, authorName, authorEmail, body string, isInternal bool) (*models.MessageView, error) {
	authorName = strings.TrimSpace(authorName)
	authorEmail = strings.TrimSpace(authorEmail)
	body = strings.TrimSpace(body)

	if authorName == "" {
		return nil, &models.ValidationError{Field: "author_name", Message: "please enter your name"}
	}
	if !utils.IsValidEmail(authorEmail) {
		return nil, &models.ValidationError{Field: "author_email", Message: "please enter a valid email address"}
	}
	if body == "" {
		return nil, &models.ValidationError{Field: "body", Message: "please enter a message"}
	}

	brief, err := s.briefs.GetByID(ctx, briefID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		BriefID:     briefID,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Body:        body,
		IsInternal:  isInternal,
		IsRead:      false,
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	// Уведомление — последний шаг, провал доставки не трогает сообщение
	s.sendMessageNotification(brief, msg)

	return &models.MessageView{Message: *msg, TimeAgo: "just now"}, nil
}

// ListMessages возвращает переписку в хронологическом порядке.
// Внутренние заметки видны только ревьюверам.
func (s *MessageService) ListMessages(ctx context.Context, briefID primitive.ObjectID, includeInternal bool) ([]models.MessageView, error) {
	if _, err := s.briefs.GetByID(ctx, briefID); err != nil {
		return nil, err
	}

	messages, err := s.repo.GetByBrief(ctx, briefID, includeInternal)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]models.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, models.MessageView{
			Message: msg,
			TimeAgo: utils.TimeAgo(msg.CreatedAt, now),
		})
	}
	return views, nil
}

func (s *MessageService) MarkAllRead(ctx context.Context, briefID primitive.ObjectID) error {
	if _, err := s.briefs.GetByID(ctx, briefID); err != nil {
		return err
	}
	if err := s.repo.MarkAllRead(ctx, briefID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MessageService) UnreadCount(ctx context.Context, briefID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, briefID)
}

func (s *MessageService) TotalUnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnreadTotal(ctx)
}

func (s *MessageService) MessageCount(ctx context.Context, briefID primitive.ObjectID) (int64, error) {
	return s.repo.CountByBrief(ctx, briefID)
}

// DeleteMessagesForBrief — каскадное удаление при удалении брифа
func (s *MessageService) DeleteMessagesForBrief(ctx context.Context, briefID primitive.ObjectID) error {
	if err := s.repo.DeleteByBrief(ctx, briefID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MessageService) sendMessageNotification(brief *models.Brief, msg *models.Message) {
	if !s.cfg.NotifyOnMessage {
		return
	}

	to := s.cfg.NotificationRecipient()
	if to == "" {
		log.Println("No recipient email configured for message notifications")
		return
	}

	subject := fmt.Sprintf("[Campaign Brief] New message on: %s", brief.Title)
	body := fmt.Sprintf(
		"A new message was posted on a campaign brief.\n\n"+
			"BRIEF: %s\n\n"+
			"FROM: %s\nEMAIL: %s\nDATE: %s\n\n"+
			"MESSAGE:\n%s\n\n"+
			"View brief: %s/briefs/%s\n",
		brief.Title,
		msg.AuthorName,
		msg.AuthorEmail,
		time.Now().Format("January 2, 2006 at 3:04 pm"),
		msg.Body,
		s.cfg.PublicBaseURL,
		brief.ID.Hex(),
	)
	replyTo := fmt.Sprintf("%s <%s>", msg.AuthorName, msg.AuthorEmail)

	if err := s.notifier.Send(to, subject, body, replyTo); err != nil {
		log.Printf("Failed to send message notification to %s: %v", to, err)
	}
}

func (s *MessageService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
