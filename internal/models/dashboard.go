package models

// ServiceLevelCount — счётчик брифов одного уровня обслуживания
type ServiceLevelCount struct {
	Level ServiceLevel `json:"level"`
	Label string       `json:"label"`
	Count int64        `json:"count"`
}

// DashboardSummary — сводка для экрана дашборда команды коммуникаций
type DashboardSummary struct {
	StatusCounts       map[WorkflowStatus]int64 `json:"status_counts"`
	ServiceLevelCounts []ServiceLevelCount      `json:"service_level_counts"`
	RecentBriefs       []Brief                  `json:"recent_briefs"`
	RecentMessages     []RecentMessage          `json:"recent_messages"`
	TotalUnread        int64                    `json:"total_unread"`
}
