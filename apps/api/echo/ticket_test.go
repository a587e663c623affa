package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shkola/core/ticket"
	"github.com/trezcool/shkola/core/user"
)

func TestTicketAPI(t *testing.T) {
	app := newTestApp(t)
	super := app.createUser(t, "Root Admin", "root@school.test", user.RoleSuperAdmin)
	sys := app.createUser(t, "Sys Admin", "sys@school.test", user.RoleSysAdmin)
	anna := app.createUser(t, "Anna Petrova", "anna@school.test", user.RoleTeacher)
	zoya := app.createUser(t, "Zoya Kim", "zoya@school.test", user.RoleTeacher)
	boris := app.createUser(t, "Boris Ivanov", "boris@school.test", user.RoleStudent)
	superToken, sysToken := app.token(t, super), app.token(t, sys)
	annaToken, zoyaToken, studentToken := app.token(t, anna), app.token(t, zoya), app.token(t, boris)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "list: student forbidden",
			method:   http.MethodGet,
			path:     "/v1/tickets",
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: marshal(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "create: student forbidden",
			method:   http.MethodPost,
			path:     "/v1/tickets",
			token:    studentToken,
			body:     []byte(`{"title": "Проектор", "description": "Не работает"}`),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "create: blank fields",
			method:   http.MethodPost,
			path:     "/v1/tickets",
			token:    annaToken,
			body:     []byte(`{"title": " ", "description": ""}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required", "description": "this field is required"}`),
		},
	})

	create := func(t *testing.T, token, title string) ticket.Ticket {
		t.Helper()
		rec := app.do(httpTest{method: http.MethodPost, path: "/v1/tickets", token: token,
			body: []byte(`{"title": " ` + title + ` ", "description": "каб. 12"}`)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var tkt ticket.Ticket
		decode(t, rec, &tkt)
		assert.Equal(t, title, tkt.Title)
		assert.Equal(t, ticket.StatusOpen, tkt.Status)
		time.Sleep(time.Millisecond) // distinct creation times
		return tkt
	}
	projector := create(t, annaToken, "Проектор")
	printer := create(t, zoyaToken, "Принтер")
	wifi := create(t, annaToken, "Wi-Fi")

	runHTTPTests(t, app, []httpTest{
		{
			name:     "status: teacher forbidden",
			method:   http.MethodPut,
			path:     "/v1/tickets/" + projector.ID,
			token:    annaToken,
			body:     []byte(`{"status": "CLOSED"}`),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "status: invalid",
			method:   http.MethodPut,
			path:     "/v1/tickets/" + projector.ID,
			token:    sysToken,
			body:     []byte(`{"status": "DONE"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "status: unknown ticket",
			method:   http.MethodPut,
			path:     "/v1/tickets/00000000-0000-0000-0000-000000000000",
			token:    sysToken,
			body:     []byte(`{"status": "CLOSED"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "status: close",
			method:   http.MethodPut,
			path:     "/v1/tickets/" + projector.ID,
			token:    sysToken,
			body:     []byte(`{"status": "CLOSED"}`),
			wantCode: http.StatusOK,
		},
	})

	ids := func(t *testing.T, token string) []string {
		t.Helper()
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/tickets", token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tickets []ticket.Ticket
		decode(t, rec, &tickets)
		got := make([]string, 0, len(tickets))
		for _, tkt := range tickets {
			got = append(got, tkt.ID)
		}
		return got
	}

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{"super admin sees everything", superToken, []string{wifi.ID, printer.ID, projector.ID}},
		{"system admin does not see closed tickets", sysToken, []string{wifi.ID, printer.ID}},
		{"teacher sees their own", annaToken, []string{wifi.ID, projector.ID}},
		{"other teacher", zoyaToken, []string{printer.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(t, tt.token))
		})
	}
}
