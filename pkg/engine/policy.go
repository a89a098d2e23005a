package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WithdrawalDisputeMode selects how a dispute targeting a withdrawal is
// handled. Deposit disputes are always held; the withdrawal case is a
// business decision, so it is configuration rather than code.
type WithdrawalDisputeMode string

const (
	// WithdrawalDisputeHold treats withdrawal disputes exactly like
	// deposit disputes: the logged amount moves to held.
	WithdrawalDisputeHold WithdrawalDisputeMode = "hold"

	// WithdrawalDisputeReject refuses any dispute that targets a
	// withdrawal.
	WithdrawalDisputeReject WithdrawalDisputeMode = "reject"
)

// Policy carries the configurable processing decisions.
type Policy struct {
	WithdrawalDisputes WithdrawalDisputeMode `yaml:"withdrawal_disputes"`
}

// DefaultPolicy returns the policy used when no policy file is given:
// withdrawal disputes are held like any other dispute.
func DefaultPolicy() Policy {
	return Policy{WithdrawalDisputes: WithdrawalDisputeHold}
}

// LoadPolicy reads a Policy from a YAML file. Keys absent from the file
// keep their default values.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}

	return policy, nil
}

// Validate checks that the policy holds recognized values.
func (p Policy) Validate() error {
	switch p.WithdrawalDisputes {
	case WithdrawalDisputeHold, WithdrawalDisputeReject:
		return nil
	default:
		return fmt.Errorf("unknown withdrawal_disputes mode %q", p.WithdrawalDisputes)
	}
}
