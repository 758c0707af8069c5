package family

import (
	"sort"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// Info is the family metadata the resolver needs from storage
type Info struct {
	ID                  string
	Name                string
	PreferServeTogether bool
}

// Resolve groups ministers by family id. Ministers without a family id, and
// families with a single scheduling-eligible member, are not grouped; the
// assignment engine treats them as individuals. Families missing a metadata
// row default to serving together.
func Resolve(ministers []model.Minister, families []Info, logger *zap.Logger) []model.FamilyGroup {
	infoByID := make(map[string]Info, len(families))
	for _, info := range families {
		infoByID[info.ID] = info
	}

	membersByFamily := make(map[string][]string)
	for _, minister := range ministers {
		if minister.FamilyID == "" {
			continue
		}
		membersByFamily[minister.FamilyID] = append(membersByFamily[minister.FamilyID], minister.ID)
	}

	groups := make([]model.FamilyGroup, 0, len(membersByFamily))
	for familyID, memberIDs := range membersByFamily {
		if len(memberIDs) < 2 {
			continue
		}
		sort.Strings(memberIDs)

		group := model.FamilyGroup{
			ID:                  familyID,
			MemberIDs:           memberIDs,
			PreferServeTogether: true,
		}
		if info, ok := infoByID[familyID]; ok {
			group.Name = info.Name
			group.PreferServeTogether = info.PreferServeTogether
		} else {
			logger.Debug("family has members but no metadata row, defaulting to serve-together",
				zap.String("family_id", familyID))
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// MembersOf returns the ministers belonging to the group, in the group's
// member order
func MembersOf(group model.FamilyGroup, ministers map[string]model.Minister) []model.Minister {
	members := make([]model.Minister, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		if minister, ok := ministers[id]; ok {
			members = append(members, minister)
		}
	}
	return members
}
