package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Slug         string             `json:"slug" bson:"slug"`
	Description  string             `json:"description" bson:"description"`
	InstructorID primitive.ObjectID `json:"instructor_id,omitempty" bson:"instructor_id,omitempty"`
	Fees         int64              `json:"fees" bson:"fees"`
	Currency     string             `json:"currency" bson:"currency"`
	IsPublished  bool               `json:"is_published" bson:"is_published"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
