package inmemdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/order"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/ticket"
	"github.com/trezcool/shkola/core/user"
	"github.com/trezcool/shkola/testutil"
)

func TestUserRepository_QueryUsers(t *testing.T) {
	db := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	zoya := testutil.CreateUser(t, repo, "Zoya Kim", "zoya@school.test", "", user.RoleTeacher, true, now.Add(-3*time.Hour))
	anna := testutil.CreateUser(t, repo, "Anna Petrova", "anna@school.test", "", user.RoleTeacher, false, now.Add(-2*time.Hour))
	boris := testutil.CreateUser(t, repo, "Boris Ivanov", "boris@school.test", "", user.RoleStudent, true, now.Add(-time.Hour))

	ids := func(users []user.User) []string {
		res := make([]string, 0, len(users))
		for _, usr := range users {
			res = append(res, usr.ID)
		}
		return res
	}
	active := true

	tests := []struct {
		name     string
		filter   *user.QueryFilter
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "default ordering", want: []string{zoya.ID, anna.ID, boris.ID}},
		{name: "by name", ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{anna.ID, boris.ID, zoya.ID}},
		{name: "newest first", ordering: []core.DBOrdering{{Field: "created_at"}}, want: []string{boris.ID, anna.ID, zoya.ID}},
		{
			name:     "role then name",
			ordering: []core.DBOrdering{{Field: "role"}, {Field: "name", Ascending: true}},
			want:     []string{anna.ID, zoya.ID, boris.ID},
		},
		{name: "search is case-insensitive", filter: &user.QueryFilter{Search: "PETROVA"}, want: []string{anna.ID}},
		{name: "search email", filter: &user.QueryFilter{Search: "boris@"}, want: []string{boris.ID}},
		{name: "roles", filter: &user.QueryFilter{Roles: []user.Role{user.RoleTeacher}}, want: []string{zoya.ID, anna.ID}},
		{name: "active teachers", filter: &user.QueryFilter{Roles: []user.Role{user.RoleTeacher}, IsActive: &active}, want: []string{zoya.ID}},
		{name: "no match", filter: &user.QueryFilter{Search: "nobody"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.QueryUsers(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestUserRepository_GetUser(t *testing.T) {
	db := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	newer := testutil.CreateUser(t, repo, "Anna Petrova", "anna2@school.test", "", user.RoleTeacher, true, now)
	older := testutil.CreateUser(t, repo, "Anna Petrova", "anna1@school.test", "", user.RoleTeacher, true, now.Add(-time.Hour))

	got, err := repo.GetUser(ctx, user.GetFilter{Name: "Anna Petrova"})
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID, "oldest name match wins")

	got, err = repo.GetUser(ctx, user.GetFilter{Email: newer.Email, Name: "Anna Petrova"})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID, "email takes precedence over name")

	_, err = repo.GetUser(ctx, user.GetFilter{ID: "nope"})
	assert.Equal(t, user.ErrNotFound, err)
	_, err = repo.GetUser(ctx, user.GetFilter{Email: "nope@school.test"})
	assert.True(t, core.IsNotFound(err))

	_, err = repo.CreateUser(ctx, user.User{Name: "Dup", Email: older.Email})
	assert.Equal(t, user.ErrEmailExists, err)
	assert.Equal(t, user.ErrEmailExists, repo.CheckEmailUniqueness(ctx, older.Email, nil))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, older.Email, []user.User{older}))
}

type fixtures struct {
	users    user.Repository
	classes  class.Repository
	schedule schedule.Repository
	events   calendar.Repository
	orders   order.Repository
	tickets  ticket.Repository

	teacher user.User
	cls     class.Class
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	db := Open()
	ctx := context.Background()
	now := time.Now().UTC()

	f := fixtures{
		users:    NewUserRepository(db),
		classes:  NewClassRepository(db),
		schedule: NewScheduleRepository(db),
		events:   NewEventRepository(db),
		orders:   NewOrderRepository(db),
		tickets:  NewTicketRepository(db),
	}
	f.teacher = testutil.CreateUser(t, f.users, "Anna Petrova", "anna@school.test", "", user.RoleTeacher, true)

	var err error
	f.cls, err = f.classes.CreateClass(ctx, class.Class{Name: "3В", CreatedAt: now})
	require.NoError(t, err)
	_, err = f.classes.SetClassTeacher(ctx, f.cls.ID, null.StringFrom(f.teacher.ID))
	require.NoError(t, err)

	_, err = f.schedule.CreateItem(ctx, schedule.Item{
		Title:     "Математика",
		StartTime: now,
		EndTime:   now.Add(40 * time.Minute),
		TeacherID: f.teacher.ID,
		ClassID:   f.cls.ID,
		CreatedAt: now,
	})
	require.NoError(t, err)
	_, err = f.events.CreateEvent(ctx, calendar.Event{Title: "Выпускной", Date: now, CreatedBy: f.teacher.ID, CreatedAt: now})
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, order.Order{ClassID: f.cls.ID, Order: "25 обедов", CreatedBy: f.teacher.ID, CreatedAt: now})
	require.NoError(t, err)
	_, err = f.tickets.CreateTicket(ctx, ticket.Ticket{Title: "Проектор", Status: ticket.StatusOpen, CreatedBy: f.teacher.ID, CreatedAt: now})
	require.NoError(t, err)
	return f
}

func TestDeleteUser_cascades(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	cnt, err := f.users.DeleteUsersByID(ctx, []string{f.teacher.ID, "nope"})
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)

	cls, err := f.classes.GetClass(ctx, f.cls.ID)
	require.NoError(t, err)
	assert.False(t, cls.ClassTeacherID.Valid)
	assert.Nil(t, cls.ClassTeacher)

	items, err := f.schedule.QueryItems(ctx, schedule.QueryFilter{ClassID: f.cls.ID})
	require.NoError(t, err)
	assert.Empty(t, items)

	events, err := f.events.QueryEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	orders, err := f.orders.QueryOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	tickets, err := f.tickets.QueryTickets(ctx, ticket.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestDeleteClass_cascades(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.classes.DeleteClass(ctx, f.cls.ID))
	assert.Equal(t, class.ErrNotFound, f.classes.DeleteClass(ctx, f.cls.ID))

	items, err := f.schedule.QueryItems(ctx, schedule.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	orders, err := f.orders.QueryOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// not tied to the class
	events, err := f.events.QueryEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	tickets, err := f.tickets.QueryTickets(ctx, ticket.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestScheduleRepository_QueryItems(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	base := time.Date(2001, 9, 4, 8, 0, 0, 0, time.UTC)

	second, err := f.schedule.CreateItem(ctx, schedule.Item{Title: "Физика", StartTime: base.Add(time.Hour), ClassID: f.cls.ID, TeacherID: f.teacher.ID})
	require.NoError(t, err)
	first, err := f.schedule.CreateItem(ctx, schedule.Item{Title: "Алгебра", StartTime: base, ClassID: f.cls.ID, TeacherID: f.teacher.ID})
	require.NoError(t, err)

	items, err := f.schedule.QueryItems(ctx, schedule.QueryFilter{ClassID: f.cls.ID, From: base, To: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	require.NotNil(t, items[0].Teacher)
	assert.Equal(t, f.teacher.Name, items[0].Teacher.Name)

	items, err = f.schedule.QueryItems(ctx, schedule.QueryFilter{ClassID: "other"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDB_Flush(t *testing.T) {
	db := Open()
	repo := NewUserRepository(db)
	testutil.CreateUser(t, repo, "Anna Petrova", "anna@school.test", "", user.RoleTeacher, true)

	db.Flush()
	users, err := repo.QueryUsers(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestTransactor_InTx(t *testing.T) {
	db := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := NewTransactor().InTx(ctx, func(exec core.DBExecutor) error {
		assert.Nil(t, exec)
		_, err := repo.CreateUser(ctx, user.User{Name: "Pavel Smirnov", Email: "1@auto.local"}, exec)
		require.NoError(t, err)
		return errBoom
	})
	assert.Equal(t, errBoom, err)

	// writes made before the failure are kept: the in-memory store has no rollback
	users, err := repo.QueryUsers(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
