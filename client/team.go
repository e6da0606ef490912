package client

import "strings"

// TeamGroups buckets the roster the way the team page lays it out.
type TeamGroups struct {
	Faculty    []TeamMember
	Presidents []TeamMember
	Developers []TeamMember
	Core       []TeamMember
}

// GroupTeamMembers sorts members into page sections by role. Matching is
// a case-insensitive substring check so "Faculty Coordinator" and
// "Vice President" land where a reader expects. Anyone unmatched goes to
// the core team section.
func GroupTeamMembers(members []TeamMember) TeamGroups {
	var groups TeamGroups
	for _, m := range members {
		role := strings.ToLower(m.Role)
		switch {
		case strings.Contains(role, "faculty") || strings.Contains(role, "coordinator"):
			groups.Faculty = append(groups.Faculty, m)
		case strings.Contains(role, "president"):
			groups.Presidents = append(groups.Presidents, m)
		case strings.Contains(role, "developer"):
			groups.Developers = append(groups.Developers, m)
		default:
			groups.Core = append(groups.Core, m)
		}
	}
	return groups
}
