package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BriefID     primitive.ObjectID `bson:"brief_id" json:"brief_id"`
	AuthorName  string             `bson:"author_name" json:"author_name"`
	AuthorEmail string             `bson:"author_email" json:"author_email"`
	Body        string             `bson:"body" json:"body"`
	IsInternal  bool               `bson:"is_internal" json:"is_internal"`
	IsRead      bool               `bson:"is_read" json:"is_read"`
	// Seq растёт монотонно, сортировка по нему сохраняет порядок вставки
	// даже при совпадающих created_at.
	Seq       int64     `bson:"seq" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MessageView — сообщение с готовой относительной датой для клиента
type MessageView struct {
	Message
	TimeAgo string `json:"time_ago"`
}

// RecentMessage объединяет сообщение с заголовком брифа (для дашборда)
type RecentMessage struct {
	Message    `bson:",inline"`
	BriefTitle string `bson:"brief_title" json:"brief_title"`
}
