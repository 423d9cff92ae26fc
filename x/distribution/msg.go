package distribution

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
)

// CreateMsg funds a new distribution.
type CreateMsg struct {
	Creator     rewarder.Address  `json:"creator"`
	Pool        rewarder.Address  `json:"pool,omitempty"`
	RewardToken rewarder.Address  `json:"reward_token"`
	Amount      coin.Amount       `json:"amount"`
	Start       rewarder.UnixTime `json:"start"`
	EpochCount  int64             `json:"epoch_count"`
}

var _ rewarder.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "distribution/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	if len(m.Pool) != 0 {
		errs = errors.AppendField(errs, "Pool", m.Pool.Validate())
	}
	errs = errors.AppendField(errs, "RewardToken", m.RewardToken.Validate())
	if !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Start", m.Start.Validate())
	if m.EpochCount <= 0 {
		errs = errors.AppendField(errs, "EpochCount", errors.ErrInvalidDuration)
	}
	return errs
}

// UpdateConfigurationMsg patches the distribution configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ rewarder.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "distribution/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch is required")
	}
	return nil
}
