package transitions

import (
	"bytes"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/issue"
	"github.com/scan-io-git/findingflow/internal/store"
	"github.com/scan-io-git/findingflow/pkg/shared/errors"
)

func setup(t *testing.T) {
	t.Helper()
	memFs := afero.NewMemMapFs()
	snapshot := &store.Snapshot{Findings: []*issue.Finding{{
		Key:          "k1",
		RuleKey:      "go:S100",
		Kind:         issue.KindStandard,
		Status:       issue.StatusOpen,
		CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}}
	require.NoError(t, store.NewFileStore(memFs).Save("/findings.yml", snapshot))
	Init(config.Default(), hclog.NewNullLogger(), memFs)
}

func TestRunTransitions(t *testing.T) {
	setup(t)

	var out bytes.Buffer
	require.NoError(t, runTransitions(&out, RunOptionsTransitions{Store: "/findings.yml", Key: "k1"}))

	assert.Equal(t, `confirm -> CONFIRMED
resolve -> RESOLVED
falsepositive -> RESOLVED (requires issueadmin)
wontfix -> RESOLVED (requires issueadmin)
accept -> RESOLVED (requires issueadmin)
`, out.String())
}

func TestRunTransitionsErrors(t *testing.T) {
	setup(t)

	tests := []struct {
		name     string
		options  RunOptionsTransitions
		exitCode int
		wantErr  string
	}{
		{
			name:     "missing key",
			options:  RunOptionsTransitions{Store: "/findings.yml"},
			exitCode: 1,
			wantErr:  "missing required flags: key",
		},
		{
			name:     "unknown finding",
			options:  RunOptionsTransitions{Store: "/findings.yml", Key: "nope"},
			exitCode: 1,
			wantErr:  "finding not found: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runTransitions(&bytes.Buffer{}, tt.options)
			var cmdErr *errors.CommandError
			require.ErrorAs(t, err, &cmdErr)
			assert.Equal(t, tt.exitCode, cmdErr.ExitCode)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
