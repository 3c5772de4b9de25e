package permissions

import "github.com/hudumahub/hudumahub/internal/models"

// Capability names an action a role may or may not perform. Role checks go
// through Can so no handler compares role strings directly.
type Capability string

const (
	CapUserList         Capability = "user.list"
	CapUserManage       Capability = "user.manage"
	CapSectorManage     Capability = "sector.manage"
	CapProviderManage   Capability = "provider.manage"
	CapProviderModerate Capability = "provider.moderate"
	CapReviewCreate     Capability = "review.create"
	CapReviewModerate   Capability = "review.moderate"
	CapBookingCreate    Capability = "booking.create"
	CapReportResolve    Capability = "report.resolve"
)

// capabilityRoles is the closed capability table. Roles absent from an entry
// are denied; ownership checks on individual records stay in the services.
var capabilityRoles = map[Capability]map[models.Role]struct{}{
	CapUserList:         roles(models.RoleAdmin, models.RoleSectorAdmin),
	CapUserManage:       roles(models.RoleAdmin),
	CapSectorManage:     roles(models.RoleAdmin, models.RoleSectorAdmin),
	CapProviderManage:   roles(models.RoleProvider),
	CapProviderModerate: roles(models.RoleAdmin, models.RoleSectorAdmin),
	CapReviewCreate:     roles(models.RoleClient),
	CapReviewModerate:   roles(models.RoleAdmin, models.RoleSectorAdmin),
	CapBookingCreate:    roles(models.RoleClient),
	CapReportResolve:    roles(models.RoleAdmin),
}

// Can reports whether the supplied role holds the capability.
func Can(role models.Role, capability Capability) bool {
	allowed, ok := capabilityRoles[capability]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}

func roles(rs ...models.Role) map[models.Role]struct{} {
	set := make(map[models.Role]struct{}, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}
