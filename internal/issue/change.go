package issue

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Field names recorded in change diffs.
const (
	FieldStatus     = "status"
	FieldResolution = "resolution"
	FieldAssignee   = "assignee"
	FieldLine       = "line"
)

// Diff holds the value of one field before and after a change.
// An empty value stands for "absent".
type Diff struct {
	Old string `yaml:"old,omitempty"`
	New string `yaml:"new,omitempty"`
}

// Change is one record of a finding history: the diffs produced together at
// a given date by a given user (empty for analyses).
type Change struct {
	ID           string          `yaml:"id"`
	CreationDate time.Time       `yaml:"creation_date"`
	UserUUID     string          `yaml:"user,omitempty"`
	Diffs        map[string]Diff `yaml:"diffs"`
}

// NewChange creates an empty change record. Its identifier is a ULID built
// from the creation date, so identifiers sort like the history does.
func NewChange(date time.Time, userUUID string) *Change {
	return &Change{
		ID:           newID(date),
		CreationDate: date,
		UserUUID:     userUUID,
		Diffs:        map[string]Diff{},
	}
}

// SetDiff records a field change. When the field was already changed by this
// record only the new value is updated, so Old keeps the value the field had
// before the record started.
func (c *Change) SetDiff(field, oldValue, newValue string) *Change {
	if c.Diffs == nil {
		c.Diffs = map[string]Diff{}
	}
	if existing, ok := c.Diffs[field]; ok {
		existing.New = newValue
		c.Diffs[field] = existing
		return c
	}
	c.Diffs[field] = Diff{Old: oldValue, New: newValue}
	return c
}

// Get returns the diff recorded for a field.
func (c Change) Get(field string) (Diff, bool) {
	d, ok := c.Diffs[field]
	return d, ok
}

func (c Change) clone() Change {
	out := c
	out.Diffs = make(map[string]Diff, len(c.Diffs))
	for k, v := range c.Diffs {
		out.Diffs[k] = v
	}
	return out
}

func newID(date time.Time) string {
	if date.Unix() < 0 {
		return ulid.Make().String()
	}
	return ulid.MustNew(ulid.Timestamp(date), ulid.DefaultEntropy()).String()
}
