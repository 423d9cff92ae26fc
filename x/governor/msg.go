package governor

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
)

// ProposeRootMsg submits a new root for review.
type ProposeRootMsg struct {
	Root []byte `json:"root"`
}

var _ rewarder.Msg = (*ProposeRootMsg)(nil)

func (ProposeRootMsg) Path() string {
	return "governor/propose_root"
}

func (m *ProposeRootMsg) Validate() error {
	if len(m.Root) != merkle.HashSize {
		return errors.Field("Root", errors.ErrInput, "must be %d bytes", merkle.HashSize)
	}
	if merkle.IsZeroRoot(m.Root) {
		return errors.Field("Root", errors.ErrEmpty, "zero root")
	}
	return nil
}

// UpdateConfigurationMsg patches the governor configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ rewarder.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "governor/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch is required")
	}
	return nil
}
