package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

func TestVisibilityFor(t *testing.T) {
	tests := []struct {
		name    string
		usr     user.User
		want    QueryFilter
		wantErr error
	}{
		{name: "student", usr: user.User{ID: "s", Role: user.RoleStudent}, wantErr: core.ErrForbidden},
		{name: "teacher", usr: user.User{ID: "t", Role: user.RoleTeacher}, want: QueryFilter{CreatedBy: "t"}},
		{name: "system admin", usr: user.User{ID: "a", Role: user.RoleSysAdmin}, want: QueryFilter{ExcludeStatus: StatusClosed}},
		{name: "super admin", usr: user.User{ID: "sa", Role: user.RoleSuperAdmin}, want: QueryFilter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VisibilityFor(tt.usr)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
