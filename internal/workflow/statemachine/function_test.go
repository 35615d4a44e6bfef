package statemachine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/findingflow/internal/issue"
)

func TestNot(t *testing.T) {
	assert.False(t, Not(always).Matches(&issue.Finding{}))
	assert.True(t, Not(never).Matches(&issue.Finding{}))
	assert.True(t, Not(Not(always)).Matches(&issue.Finding{}))
}

func TestFunctionContext_Mutations(t *testing.T) {
	date := time.Date(2023, 5, 1, 8, 0, 0, 999, time.UTC)
	line := 7
	f := &issue.Finding{Status: "OPEN", Assignee: "bob", Line: &line}
	fc := NewFunctionContext(f, issue.NewUserContext(date, "u1"))

	fc.SetResolution(issue.ResolutionWontFix).
		UnsetAssignee().
		UnsetLine().
		SetCloseDate().
		SetStatus("RESOLVED").
		AddComment("one").
		AddComment("two")

	assert.Same(t, f, fc.Finding())
	assert.Equal(t, "u1", fc.ChangeContext().UserUUID)
	assert.Equal(t, issue.ResolutionWontFix, f.Resolution)
	assert.Empty(t, f.Assignee)
	assert.Nil(t, f.Line)
	require.NotNil(t, f.CloseDate)
	assert.Equal(t, date.Truncate(time.Second), *f.CloseDate)
	assert.Equal(t, "RESOLVED", f.Status)
	assert.Equal(t, []string{"one", "two"}, fc.Comments())

	require.NotNil(t, f.CurrentChange)
	assert.Len(t, f.CurrentChange.Diffs, 4)

	fc.UnsetCloseDate()
	assert.Nil(t, f.CloseDate)

	at := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	fc.SetCloseDateAt(at).Assign("carol")
	assert.Equal(t, at, *f.CloseDate)
	assert.Equal(t, "carol", f.Assignee)
}
