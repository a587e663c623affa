package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/user"
)

func TestClassAPI(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Root Admin", "root@school.test", user.RoleSuperAdmin)
	anna := app.createUser(t, "Anna Petrova", "anna@school.test", user.RoleTeacher)
	boris := app.createUser(t, "Boris Ivanov", "boris@school.test", user.RoleStudent)
	adminToken, teacherToken, studentToken := app.token(t, admin), app.token(t, anna), app.token(t, boris)

	existing, err := app.clsRepo.CreateClass(context.Background(), class.Class{Name: "2Б", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "create: student forbidden",
			method:   http.MethodPost,
			path:     "/v1/classes",
			token:    studentToken,
			body:     []byte(`{"name": "1А"}`),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "create: blank name",
			method:   http.MethodPost,
			path:     "/v1/classes",
			token:    teacherToken,
			body:     []byte(`{"name": " "}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required"}`),
		},
		{
			name:     "create: duplicate name",
			method:   http.MethodPost,
			path:     "/v1/classes",
			token:    teacherToken,
			body:     []byte(`{"name": "2Б"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "a class with this name already exists"}`),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/v1/classes",
			token:    teacherToken,
			body:     []byte(`{"name": "1А"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "teacher: not a super admin",
			method:   http.MethodGet,
			path:     "/v1/classes/" + existing.ID + "/teacher",
			token:    teacherToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "teacher: none yet",
			method:   http.MethodGet,
			path:     "/v1/classes/" + existing.ID + "/teacher",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`null`),
		},
		{
			name:     "teacher: student cannot be class teacher",
			method:   http.MethodPut,
			path:     "/v1/classes/" + existing.ID + "/teacher",
			token:    adminToken,
			body:     []byte(`{"teacher_id": "` + boris.ID + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"teacher_id": "user cannot be a class teacher"}`),
		},
		{
			name:     "teacher: unknown class",
			method:   http.MethodPut,
			path:     "/v1/classes/00000000-0000-0000-0000-000000000000/teacher",
			token:    adminToken,
			body:     []byte(`{"teacher_id": "` + anna.ID + `"}`),
			wantCode: http.StatusNotFound,
			wantData: marshal(t, httpErr{Error: "class not found"}),
		},
		{
			name:     "teacher: set",
			method:   http.MethodPut,
			path:     "/v1/classes/" + existing.ID + "/teacher",
			token:    adminToken,
			body:     []byte(`{"teacher_id": "` + anna.ID + `"}`),
			wantCode: http.StatusOK,
			wantData: marshal(t, anna.Person()),
		},
		{
			name:     "teacher: get",
			method:   http.MethodGet,
			path:     "/v1/classes/" + existing.ID + "/teacher",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: marshal(t, anna.Person()),
		},
	})

	t.Run("list sorted by name", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/classes", token: studentToken})
		require.Equal(t, http.StatusOK, rec.Code)

		var got []ClassResponse
		decode(t, rec, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "1А", got[0].Name)
		assert.Equal(t, "2Б", got[1].Name)
		require.NotNil(t, got[1].ClassTeacher)
		assert.Equal(t, anna.ID, got[1].ClassTeacher.ID)
		assert.Nil(t, got[0].Schedule)
	})

	t.Run("delete: teacher forbidden", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/classes/" + existing.ID, token: teacherToken})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/classes/" + existing.ID, token: adminToken})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.do(httpTest{method: http.MethodDelete, path: "/v1/classes/" + existing.ID, token: adminToken})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
