package policy

import (
	"testing"

	"docvault/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	ops := []Operation{OpCreate, OpList, OpRead, OpUpdate, OpDelete, OpDownload}

	tests := []struct {
		name string
		role model.Role
		want map[Operation]bool
	}{
		{
			name: "admin may do everything",
			role: model.RoleAdmin,
			want: map[Operation]bool{
				OpCreate: true, OpList: true, OpRead: true,
				OpUpdate: true, OpDelete: true, OpDownload: true,
			},
		},
		{
			name: "editor may do everything within own scope",
			role: model.RoleEditor,
			want: map[Operation]bool{
				OpCreate: true, OpList: true, OpRead: true,
				OpUpdate: true, OpDelete: true, OpDownload: true,
			},
		},
		{
			name: "viewer is read-only",
			role: model.RoleViewer,
			want: map[Operation]bool{
				OpCreate: false, OpList: true, OpRead: true,
				OpUpdate: false, OpDelete: false, OpDownload: true,
			},
		},
		{
			name: "unknown role is denied everything",
			role: model.Role("superuser"),
			want: map[Operation]bool{
				OpCreate: false, OpList: false, OpRead: false,
				OpUpdate: false, OpDelete: false, OpDownload: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, op := range ops {
				assert.Equal(t, tt.want[op], Allows(tt.role, op), "op %d", op)
			}
		})
	}
}

func TestScope(t *testing.T) {
	assert.Equal(t, "", Scope(Actor{ID: "a1", Role: model.RoleAdmin}))
	assert.Equal(t, "e1", Scope(Actor{ID: "e1", Role: model.RoleEditor}))
	assert.Equal(t, "v1", Scope(Actor{ID: "v1", Role: model.RoleViewer}))
}

func TestListScope(t *testing.T) {
	tests := []struct {
		name      string
		actor     Actor
		requested string
		want      string
	}{
		{"admin without filter sees all owners", Actor{ID: "a1", Role: model.RoleAdmin}, "", ""},
		{"admin may narrow to one owner", Actor{ID: "a1", Role: model.RoleAdmin}, "e1", "e1"},
		{"editor is forced to own scope", Actor{ID: "e1", Role: model.RoleEditor}, "", "e1"},
		{"editor cannot request another owner", Actor{ID: "e1", Role: model.RoleEditor}, "e2", "e1"},
		{"viewer cannot request another owner", Actor{ID: "v1", Role: model.RoleViewer}, "e1", "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListScope(tt.actor, tt.requested))
		})
	}
}
