package whitelist

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// ToggleTokenMsg adds a token to the whitelist, or removes it when it is
// already present.
type ToggleTokenMsg struct {
	Token rewarder.Address `json:"token"`
}

var _ rewarder.Msg = (*ToggleTokenMsg)(nil)

func (ToggleTokenMsg) Path() string {
	return "whitelist/toggle"
}

func (m *ToggleTokenMsg) Validate() error {
	return errors.Field("Token", m.Token.Validate(), "invalid token")
}

// UpdateConfigurationMsg patches the whitelist configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ rewarder.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "whitelist/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch is required")
	}
	return nil
}
