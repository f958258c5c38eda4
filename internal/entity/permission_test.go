package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albinmanuel/student-management-client/internal/entity"
)

func TestPermissionSet_Toggled(t *testing.T) {
	t.Parallel()

	allTrue := entity.PermissionSet{CreateStudent: true, EditStudent: true, ViewStudent: true, DeleteStudent: true}
	allFalse := entity.PermissionSet{}

	tests := []struct {
		name string
		in   entity.PermissionSet
		want entity.PermissionSet
	}{
		{name: "none granted flips to all", in: allFalse, want: allTrue},
		{name: "all granted flips to none", in: allTrue, want: allFalse},
		{name: "partial grant flips to all", in: entity.PermissionSet{ViewStudent: true}, want: allTrue},
		{
			name: "three of four flips to all",
			in:   entity.PermissionSet{CreateStudent: true, EditStudent: true, ViewStudent: true},
			want: allTrue,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.in.Toggled())
		})
	}
}

func TestPermissionSet_ToggledAlternates(t *testing.T) {
	t.Parallel()

	set := entity.PermissionSet{EditStudent: true}

	first := set.Toggled()
	assert.True(t, first.AllGranted())

	second := first.Toggled()
	assert.Equal(t, entity.PermissionSet{}, second)

	third := second.Toggled()
	assert.Equal(t, first, third)
}

func TestPermissionSet_GrantedCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, entity.PermissionSet{}.GrantedCount())
	assert.Equal(t, 2, entity.PermissionSet{CreateStudent: true, DeleteStudent: true}.GrantedCount())
	assert.Equal(t, 4, entity.PermissionSet{CreateStudent: true, EditStudent: true, ViewStudent: true, DeleteStudent: true}.GrantedCount())
}
