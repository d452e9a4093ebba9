// Package auth authenticates users against the usuarios table and hands out
// the Capability every mutating operation must present.
package auth

import (
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/models"
)

// Capability identifies who is acting. The zero value grants nothing.
type Capability struct {
	UserID int64
	Name   string
	Role   string
}

// Require checks that c holds role. Administrators satisfy any role.
func (c Capability) Require(role string) error {
	switch {
	case c.Role == "":
		return fmt.Errorf("%w: no active session", common.ErrorUnauthorized)
	case c.Role == models.RoleAdmin, c.Role == role:
		return nil
	}
	return fmt.Errorf("%w: %s requires role %s", common.ErrorUnauthorized, c.Name, role)
}

func (c Capability) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
