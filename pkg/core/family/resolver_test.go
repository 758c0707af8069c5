package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

func TestResolveGroupsByFamilyID(t *testing.T) {
	ministers := []model.Minister{
		{ID: "m1", FamilyID: "f1"},
		{ID: "m2", FamilyID: "f1"},
		{ID: "m3", FamilyID: "f2"},
		{ID: "m4", FamilyID: "f2"},
		{ID: "m5", FamilyID: "f2"},
		{ID: "m6"},
	}
	families := []Info{
		{ID: "f1", Name: "Silva", PreferServeTogether: true},
		{ID: "f2", Name: "Oliveira", PreferServeTogether: false},
	}

	groups := Resolve(ministers, families, zap.NewNop())

	require.Len(t, groups, 2)
	assert.Equal(t, "f1", groups[0].ID)
	assert.Equal(t, "Silva", groups[0].Name)
	assert.Equal(t, []string{"m1", "m2"}, groups[0].MemberIDs)
	assert.True(t, groups[0].PreferServeTogether)

	assert.Equal(t, []string{"m3", "m4", "m5"}, groups[1].MemberIDs)
	assert.False(t, groups[1].PreferServeTogether)
}

func TestResolveSkipsSingletonFamilies(t *testing.T) {
	ministers := []model.Minister{
		{ID: "m1", FamilyID: "f1"},
		{ID: "m2"},
	}

	groups := Resolve(ministers, []Info{{ID: "f1", Name: "Silva"}}, zap.NewNop())

	assert.Empty(t, groups)
}

func TestResolveDefaultsToServeTogether(t *testing.T) {
	ministers := []model.Minister{
		{ID: "m1", FamilyID: "f1"},
		{ID: "m2", FamilyID: "f1"},
	}

	groups := Resolve(ministers, nil, zap.NewNop())

	require.Len(t, groups, 1)
	assert.True(t, groups[0].PreferServeTogether)
	assert.Empty(t, groups[0].Name)
}

func TestMembersOf(t *testing.T) {
	ministers := map[string]model.Minister{
		"m1": {ID: "m1", Name: "Ana"},
		"m2": {ID: "m2", Name: "Bento"},
	}
	group := model.FamilyGroup{ID: "f1", MemberIDs: []string{"m1", "m2", "m9"}}

	members := MembersOf(group, ministers)

	require.Len(t, members, 2)
	assert.Equal(t, "Ana", members[0].Name)
	assert.Equal(t, "Bento", members[1].Name)
}
