package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/user"
)

func TestScheduleAPI(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Root Admin", "root@school.test", user.RoleSuperAdmin)
	boris := app.createUser(t, "Boris Ivanov", "boris@school.test", user.RoleStudent)
	anna := app.createUser(t, "Anna Petrova", "anna@school.test", user.RoleTeacher)
	adminToken, studentToken := app.token(t, admin), app.token(t, boris)

	cls, err := app.clsRepo.CreateClass(context.Background(), class.Class{Name: "3В", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	newItem := func(day, lesson, title, teacher, start, end string) []byte {
		return []byte(`{"class_id": "` + cls.ID + `", "day": "` + day + `", "lesson_number": ` + lesson +
			`, "title": "` + title + `", "teacher_name": "` + teacher + `", "location": "каб. 12"` +
			`, "start_time": "` + start + `", "end_time": "` + end + `"}`)
	}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "query: no token",
			method:   http.MethodGet,
			path:     "/v1/schedule?class_id=" + cls.ID,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "query: missing class",
			method:   http.MethodGet,
			path:     "/v1/schedule?day=Monday",
			token:    studentToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"class_id": "this field is required"}`),
		},
		{
			name:     "query: unknown day",
			method:   http.MethodGet,
			path:     "/v1/schedule?class_id=" + cls.ID + "&day=Sunday",
			token:    studentToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"day": "unknown day"}`),
		},
		{
			name:     "query: empty",
			method:   http.MethodGet,
			path:     "/v1/schedule?class_id=" + cls.ID,
			token:    studentToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "create: student forbidden",
			method:   http.MethodPost,
			path:     "/v1/admin/schedule",
			token:    studentToken,
			body:     newItem("Вторник", "1", "Математика", "Anna Petrova", "08:00", "08:30"),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "create: bad clock",
			method:   http.MethodPost,
			path:     "/v1/admin/schedule",
			token:    adminToken,
			body:     newItem("Вторник", "1", "Математика", "Anna Petrova", "8h", "08:30"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"start_time": "start_time must be a time of day formatted as HH:MM"}`),
		},
		{
			name:     "create: end before start",
			method:   http.MethodPost,
			path:     "/v1/admin/schedule",
			token:    adminToken,
			body:     newItem("Вторник", "1", "Математика", "Anna Petrova", "09:00", "08:30"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"end_time": "end_time must be after start_time"}`),
		},
		{
			name:     "create: unknown class",
			method:   http.MethodPost,
			path:     "/v1/admin/schedule",
			token:    adminToken,
			body:     []byte(`{"class_id": "nope", "day": "Вторник", "lesson_number": 1, "title": "Математика", "teacher_name": "Anna Petrova", "location": "1", "start_time": "08:00", "end_time": "08:30"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"class_id": "class not found"}`),
		},
	})

	var second, first schedule.Item
	t.Run("create", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPost, path: "/v1/admin/schedule", token: adminToken,
			body: newItem("вторник", "2", "Физика", "Pavel Smirnov", "08:35", "09:15")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decode(t, rec, &second)

		// an unknown teacher is created on the fly
		require.NotNil(t, second.Teacher)
		teacher, err := app.usrRepo.GetUser(context.Background(), user.GetFilter{ID: second.TeacherID})
		require.NoError(t, err)
		assert.Equal(t, "Pavel Smirnov", teacher.Name)
		assert.Equal(t, user.RoleTeacher, teacher.Role)
		assert.Contains(t, teacher.Email, "@auto.local")

		rec = app.do(httpTest{method: http.MethodPost, path: "/v1/admin/schedule", token: adminToken,
			body: newItem("Tuesday", "1", "Математика", "Anna Petrova", "08:00", "08:30")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decode(t, rec, &first)
		assert.Equal(t, anna.ID, first.TeacherID)
		assert.Equal(t, 8, first.StartTime.Hour())
		assert.Equal(t, time.Tuesday, first.StartTime.Weekday())
	})

	t.Run("query by day", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/schedule?class_id=" + cls.ID + "&day=" + url.QueryEscape("Вторник"), token: studentToken})
		require.Equal(t, http.StatusOK, rec.Code)
		var items []schedule.Item
		decode(t, rec, &items)
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID)
		assert.Equal(t, second.ID, items[1].ID)

		rec = app.do(httpTest{method: http.MethodGet, path: "/v1/schedule?class_id=" + cls.ID + "&day=" + url.QueryEscape("Среда"), token: studentToken})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("classes with schedule", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/classes?with_schedule=true", token: studentToken})
		require.Equal(t, http.StatusOK, rec.Code)
		var got []ClassResponse
		decode(t, rec, &got)
		require.Len(t, got, 1)
		assert.Len(t, got[0].Schedule, 2)
	})

	t.Run("update", func(t *testing.T) {
		start := first.StartTime.Add(time.Hour).UTC()
		body := marshal(t, schedule.UpdateItem{
			Title:       "Алгебра",
			TeacherName: "Anna Petrova",
			Location:    "каб. 7",
			StartTime:   start,
			EndTime:     start.Add(40 * time.Minute),
		})
		rec := app.do(httpTest{method: http.MethodPut, path: "/v1/admin/schedule/" + first.ID, token: adminToken, body: body})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got schedule.Item
		decode(t, rec, &got)
		assert.Equal(t, "Алгебра", got.Title)
		assert.True(t, start.Equal(got.StartTime))

		body = marshal(t, schedule.UpdateItem{Title: "x", TeacherName: "y", Location: "z", StartTime: start, EndTime: start})
		rec = app.do(httpTest{method: http.MethodPut, path: "/v1/admin/schedule/" + first.ID, token: adminToken, body: body})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/admin/schedule/" + second.ID, token: adminToken})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = app.do(httpTest{method: http.MethodDelete, path: "/v1/admin/schedule/" + second.ID, token: adminToken})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
