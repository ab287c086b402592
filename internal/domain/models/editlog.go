// internal/domain/models/editlog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EditAction is the kind of change recorded in the edit log.
type EditAction string

// Edit actions
const (
	EditCreate EditAction = "create"
	EditUpdate EditAction = "update"
	EditDelete EditAction = "delete"
)

// Snapshot is the state of a subsection captured before or after an edit.
type Snapshot struct {
	Slug           string `bson:"slug,omitempty" json:"slug,omitempty"`
	Title          string `bson:"title" json:"title"`
	BodyContent    string `bson:"body_content,omitempty" json:"body_content,omitempty"`
	Media          string `bson:"media,omitempty" json:"media,omitempty"`
	ExternalLink   string `bson:"external_link,omitempty" json:"external_link,omitempty"`
	DisclaimerNote string `bson:"disclaimer_note,omitempty" json:"disclaimer_note,omitempty"`
}

// EditLogEntry records one admin change to a subsection.
type EditLogEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
	UserEmail       string             `bson:"user_email" json:"user_email"`
	SectionID       string             `bson:"section_id" json:"section_id"`
	SubsectionID    string             `bson:"subsection_id,omitempty" json:"subsection_id,omitempty"`
	SubsectionTitle string             `bson:"subsection_title" json:"subsection_title"`
	Action          EditAction         `bson:"action" json:"action"`
	Before          *Snapshot          `bson:"before,omitempty" json:"before,omitempty"`
	After           *Snapshot          `bson:"after,omitempty" json:"after,omitempty"`
}
