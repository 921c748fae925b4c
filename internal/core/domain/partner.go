package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// administratorMarker matches both "administrator" and "administrador" in the roles text.
const administratorMarker = "administra"

// Partner is a member of the firm. Partner records are owned outside the engine.
type Partner struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	RolesText    string          `json:"rolesText"`
	SharePercent decimal.Decimal `json:"sharePercent"`
	Capital      decimal.Decimal `json:"capital"`
}

// IsAdministrator reports whether the partner's roles mark them as the managing administrator.
func (p Partner) IsAdministrator() bool {
	return strings.Contains(strings.ToLower(p.RolesText), administratorMarker)
}
