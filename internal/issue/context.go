package issue

import "time"

// ChangeContext describes who triggered a change and when.
type ChangeContext struct {
	Date     time.Time
	UserUUID string
	Scan     bool
}

// NewScanContext returns the context of an analysis run at the given date.
func NewScanContext(date time.Time) ChangeContext {
	return ChangeContext{Date: date, Scan: true}
}

// NewUserContext returns the context of an interactive change made by a user.
func NewUserContext(date time.Time, userUUID string) ChangeContext {
	return ChangeContext{Date: date, UserUUID: userUUID}
}

// Comment is a plain-text note attached to a finding.
type Comment struct {
	Key          string    `yaml:"key"`
	UserUUID     string    `yaml:"user,omitempty"`
	CreationDate time.Time `yaml:"creation_date"`
	Text         string    `yaml:"text"`
}

// NewComment creates a comment authored in the given context.
func NewComment(ctx ChangeContext, text string) Comment {
	return Comment{
		Key:          newID(ctx.Date),
		UserUUID:     ctx.UserUUID,
		CreationDate: ctx.Date,
		Text:         text,
	}
}
