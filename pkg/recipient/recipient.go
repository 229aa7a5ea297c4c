package recipient

import (
	"fmt"
	"strings"
)

// Override is a per-folder destination that supersedes the global address.
type Override struct {
	Email       string `json:"email" yaml:"email"`
	UseOverride bool   `json:"useOverride" yaml:"use_override"`
}

// Active reports whether the override should replace the global address.
func (o Override) Active() bool {
	return o.UseOverride && strings.TrimSpace(o.Email) != ""
}

// Resolve returns the override email when o is present and active,
// otherwise global.
func Resolve(o *Override, global string) string {
	if o != nil && o.Active() {
		return strings.TrimSpace(o.Email)
	}
	return global
}

// ValidAddress reports whether s has the minimal shape of an address:
// it contains "@" and does not end with it.
func ValidAddress(s string) bool {
	return strings.Contains(s, "@") && !strings.HasSuffix(s, "@")
}

// Validate rejects a non-empty email that is not an address.
// An empty email is allowed: the override then falls back to the global
// address.
func (o Override) Validate() error {
	email := strings.TrimSpace(o.Email)
	if email != "" && !ValidAddress(email) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, o.Email)
	}
	return nil
}
