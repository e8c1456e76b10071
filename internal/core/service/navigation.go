package service

import "github.com/aymaseguros/portal-api/internal/core/domain"

// Tab is one navigation entry in the portal shell.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigation entries per privilege tier. Shared entries form a strict
// superset chain: client ⊂ employee ⊂ admin.
var (
	clientTabs = []Tab{
		{ID: "dashboard", Label: "Inicio", Path: "/dashboard"},
		{ID: "policies", Label: "Pólizas", Path: "/policies"},
		{ID: "vehicles", Label: "Vehículos", Path: "/vehicles"},
		{ID: "profile", Label: "Mi Perfil", Path: "/profile"},
	}
	employeeTabs = []Tab{
		{ID: "crm", Label: "CRM", Path: "/crm"},
		{ID: "clients", Label: "Clientes", Path: "/clients"},
	}
	adminTabs = []Tab{
		{ID: "users", Label: "Usuarios", Path: "/admin/users"},
		{ID: "reports", Label: "Reportes", Path: "/admin/reports"},
	}
)

// IsAdmin reports whether the role is the admin role. Comparison is
// case-insensitive via role normalization.
func IsAdmin(role string) bool {
	return domain.NormalizeRole(role) == domain.RoleAdmin
}

// IsEmployee reports whether the role is the employee role.
func IsEmployee(role string) bool {
	return domain.NormalizeRole(role) == domain.RoleEmployee
}

// CanManageClients reports whether the role may access the CRM surface
// (client lists, leads, expirations, activity registration). This is
// the single definition used by both the RBAC middleware and the
// aggregator; role checks are never re-derived ad hoc elsewhere.
func CanManageClients(role string) bool {
	return IsAdmin(role) || IsEmployee(role)
}

// TabsFor returns the ordered, deduplicated navigation for a role.
// Tabs accumulate with privilege: every client tab is visible to
// employees, every employee tab to admins.
func TabsFor(role string) []Tab {
	tabs := make([]Tab, 0, len(clientTabs)+len(employeeTabs)+len(adminTabs))
	seen := make(map[string]struct{})

	appendTabs := func(src []Tab) {
		for _, t := range src {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			tabs = append(tabs, t)
		}
	}

	appendTabs(clientTabs)
	if CanManageClients(role) {
		appendTabs(employeeTabs)
	}
	if IsAdmin(role) {
		appendTabs(adminTabs)
	}
	return tabs
}
