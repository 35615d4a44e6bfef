package issue

import (
	"strconv"
	"time"
)

// The setters below mutate a finding and record the change in its current
// change record. They return false and record nothing when the value is
// unchanged.

// SetStatus changes the status.
func (f *Finding) SetStatus(status string, ctx ChangeContext) bool {
	if f.Status == status {
		return false
	}
	f.recordDiff(ctx, FieldStatus, f.Status, status)
	f.Status = status
	f.Changed = true
	f.SendNotifications = true
	return true
}

// SetResolution changes the resolution. The empty string removes it.
func (f *Finding) SetResolution(resolution string, ctx ChangeContext) bool {
	if f.Resolution == resolution {
		return false
	}
	f.recordDiff(ctx, FieldResolution, f.Resolution, resolution)
	f.Resolution = resolution
	f.Changed = true
	f.SendNotifications = true
	return true
}

// RecordResolution sets the resolution like SetResolution, but records the
// diff even when the value is unchanged, so the change keeps the resolution
// the finding held.
func (f *Finding) RecordResolution(resolution string, ctx ChangeContext) {
	if f.SetResolution(resolution, ctx) {
		return
	}
	f.recordDiff(ctx, FieldResolution, f.Resolution, resolution)
	f.Changed = true
}

// Assign changes the assignee. The empty string unassigns.
func (f *Finding) Assign(assignee string, ctx ChangeContext) bool {
	if f.Assignee == assignee {
		return false
	}
	f.recordDiff(ctx, FieldAssignee, f.Assignee, assignee)
	f.Assignee = assignee
	f.Changed = true
	f.SendNotifications = true
	return true
}

// Unassign removes the assignee.
func (f *Finding) Unassign(ctx ChangeContext) bool {
	return f.Assign("", ctx)
}

// UnsetLine drops the line of a finding whose code is gone.
func (f *Finding) UnsetLine(ctx ChangeContext) bool {
	if f.Line == nil {
		return false
	}
	f.recordDiff(ctx, FieldLine, strconv.Itoa(*f.Line), "")
	f.Line = nil
	f.Changed = true
	return true
}

// SetCloseDate sets the close date with whole-second precision. A nil date
// clears it.
func (f *Finding) SetCloseDate(date *time.Time) bool {
	if date == nil {
		if f.CloseDate == nil {
			return false
		}
		f.CloseDate = nil
		f.Changed = true
		return true
	}
	truncated := date.Truncate(time.Second)
	if f.CloseDate != nil && f.CloseDate.Equal(truncated) {
		return false
	}
	f.CloseDate = &truncated
	f.Changed = true
	return true
}

// SetLocation refreshes the location of a finding matched by an analysis.
// Locations are not part of the history.
func (f *Finding) SetLocation(filePath string, line *int, endLine int, snippetHash string) bool {
	changed := f.FilePath != filePath || f.EndLine != endLine || f.SnippetHash != snippetHash || !sameLine(f.Line, line)
	if !changed {
		return false
	}
	f.FilePath = filePath
	f.Line = line
	f.EndLine = endLine
	f.SnippetHash = snippetHash
	f.Changed = true
	return true
}

func (f *Finding) recordDiff(ctx ChangeContext, field, oldValue, newValue string) {
	if f.CurrentChange == nil {
		f.CurrentChange = NewChange(ctx.Date, ctx.UserUUID)
	}
	f.CurrentChange.SetDiff(field, oldValue, newValue)
}

func sameLine(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
