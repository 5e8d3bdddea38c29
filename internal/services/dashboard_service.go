package services

import (
	"context"
	"encoding/json"
	"time"

	"campaign-app/brief-service/internal/models"
	"campaign-app/brief-service/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const summaryCacheKey = "dashboard:summary"

var summaryCacheTTL = 30 * time.Second

// DashboardService собирает сводку только на чтение: счётчики по статусам
// и уровням обслуживания, недавние брифы и сообщения.
type DashboardService struct {
	briefs   repository.BriefRepository
	messages repository.MessageRepository
	redis    *redis.Client
}

func NewDashboardService(briefs repository.BriefRepository, messages repository.MessageRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{briefs: briefs, messages: messages, redis: rdb}
}

func (s *DashboardService) Summary(ctx context.Context, limit int64) (*models.DashboardSummary, error) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, summaryCacheKey).Result()
		if err == nil {
			var cached models.DashboardSummary
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, _ := json.Marshal(summary)
		_ = s.redis.Set(ctx, summaryCacheKey, data, summaryCacheTTL).Err()
	}

	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context, limit int64) (*models.DashboardSummary, error) {
	statusCounts := make(map[models.WorkflowStatus]int64, 4)
	for _, status := range []models.WorkflowStatus{
		models.StatusDraft,
		models.StatusPendingAcceptance,
		models.StatusAccepted,
		models.StatusArchived,
	} {
		count, err := s.briefs.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		statusCounts[status] = count
	}

	levelCounts := make([]models.ServiceLevelCount, 0, 3)
	for _, level := range []models.ServiceLevel{models.LevelGreen, models.LevelBlue, models.LevelBlack} {
		count, err := s.briefs.CountByServiceLevel(ctx, level)
		if err != nil {
			return nil, err
		}
		levelCounts = append(levelCounts, models.ServiceLevelCount{
			Level: level,
			Label: level.LeadTimeLabel(),
			Count: count,
		})
	}

	recentBriefs, err := s.briefs.GetRecentlyModified(ctx, limit)
	if err != nil {
		return nil, err
	}

	recentMessages, err := s.recentMessages(ctx, limit)
	if err != nil {
		return nil, err
	}

	totalUnread, err := s.messages.CountUnreadTotal(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		StatusCounts:       statusCounts,
		ServiceLevelCounts: levelCounts,
		RecentBriefs:       recentBriefs,
		RecentMessages:     recentMessages,
		TotalUnread:        totalUnread,
	}, nil
}

// recentMessages подтягивает заголовки брифов к последним сообщениям
func (s *DashboardService) recentMessages(ctx context.Context, limit int64) ([]models.RecentMessage, error) {
	messages, err := s.messages.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(messages))
	seen := make(map[primitive.ObjectID]bool)
	for _, msg := range messages {
		if !seen[msg.BriefID] {
			seen[msg.BriefID] = true
			ids = append(ids, msg.BriefID)
		}
	}

	titles, err := s.briefs.GetTitles(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]models.RecentMessage, 0, len(messages))
	for _, msg := range messages {
		title, ok := titles[msg.BriefID]
		if !ok {
			// бриф удалён, сообщение-сирота в сводку не попадает
			continue
		}
		result = append(result, models.RecentMessage{Message: msg, BriefTitle: title})
	}
	return result, nil
}

// Invalidate сбрасывает кэш сводки, вызывается после мутаций
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, summaryCacheKey).Err()
	}
}
