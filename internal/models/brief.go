package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowStatus string

const (
	StatusDraft             WorkflowStatus = "draft"
	StatusPendingAcceptance WorkflowStatus = "pending_acceptance"
	StatusAccepted          WorkflowStatus = "accepted"
	StatusArchived          WorkflowStatus = "archived"
)

func (s WorkflowStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingAcceptance, StatusAccepted, StatusArchived:
		return true
	}
	return false
}

type ServiceLevel string

const (
	LevelGreen ServiceLevel = "Green"
	LevelBlue  ServiceLevel = "Blue"
	LevelBlack ServiceLevel = "Black"
)

// LeadTimeLabel описание уровня обслуживания для дашборда
func (l ServiceLevel) LeadTimeLabel() string {
	switch l {
	case LevelGreen:
		return "8-week lead time, basic creative package"
	case LevelBlue:
		return "10-week lead time, includes web & photography"
	case LevelBlack:
		return "12-week lead time, full service with print & film"
	}
	return ""
}

// Acceptance — кто и когда принял бриф
type Acceptance struct {
	AcceptedByName  string    `bson:"accepted_by_name" json:"accepted_by_name"`
	AcceptedByEmail string    `bson:"accepted_by_email" json:"accepted_by_email"`
	AcceptedAt      time.Time `bson:"accepted_at" json:"accepted_at"`
}

type Brief struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	WorkflowStatus WorkflowStatus     `bson:"workflow_status" json:"workflow_status"`
	IsLocked       bool               `bson:"is_locked" json:"is_locked"`
	Acceptance     *Acceptance        `bson:"acceptance,omitempty" json:"acceptance,omitempty"`
	ServiceLevel   ServiceLevel       `bson:"service_level,omitempty" json:"service_level,omitempty"`
	Fields         bson.M             `bson:"fields,omitempty" json:"fields,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b *Brief) Validate() error {
	if b.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if b.ServiceLevel != "" && b.ServiceLevel != LevelGreen && b.ServiceLevel != LevelBlue && b.ServiceLevel != LevelBlack {
		return &ValidationError{Field: "service_level", Message: "unknown service level"}
	}
	return nil
}
