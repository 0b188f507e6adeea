package services

import "github.com/MYK-OTAKU/Template-sub000/domain"

// roleLevels is the single authoritative ranking of roles. Callers go through
// CanManage; nothing else may redefine this table.
var roleLevels = map[string]int{
	domain.RoleAdministrateur: 3,
	domain.RoleManager:        2,
	domain.RoleEmploye:        1,
}

// HierarchyGate implements domain.RoleGate as a pure lookup.
type HierarchyGate struct{}

// NewHierarchyGate creates the role hierarchy gate
func NewHierarchyGate() domain.RoleGate {
	return &HierarchyGate{}
}

// CanManage implements domain.RoleGate. An actor manages strictly lower
// levels, with one irregularity at the top: an Administrateur is managed only
// by an Administrateur, so level equality at the top tier is allowed there
// and nowhere else. Unknown roles fail closed.
func (g *HierarchyGate) CanManage(actorRole, targetRole string) bool {
	actorLevel, ok := roleLevels[actorRole]
	if !ok {
		return false
	}
	targetLevel, ok := roleLevels[targetRole]
	if !ok {
		return false
	}

	if targetRole == domain.RoleAdministrateur {
		return actorRole == domain.RoleAdministrateur
	}
	return actorLevel > targetLevel
}
