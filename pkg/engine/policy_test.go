package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    WithdrawalDisputeMode
		wantErr bool
	}{
		{"hold mode", "withdrawal_disputes: hold\n", WithdrawalDisputeHold, false},
		{"reject mode", "withdrawal_disputes: reject\n", WithdrawalDisputeReject, false},
		{"empty file keeps the default", "", WithdrawalDisputeHold, false},
		{"unrelated keys keep the default", "other: value\n", WithdrawalDisputeHold, false},
		{"unknown mode", "withdrawal_disputes: maybe\n", "", true},
		{"malformed yaml", "withdrawal_disputes: [unclosed\n", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy, err := LoadPolicy(writePolicyFile(t, tt.content))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy.WithdrawalDisputes)
		})
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultPolicy().Validate())
	assert.NoError(t, Policy{WithdrawalDisputes: WithdrawalDisputeReject}.Validate())
	assert.Error(t, Policy{}.Validate())
	assert.Error(t, Policy{WithdrawalDisputes: "sometimes"}.Validate())
}
