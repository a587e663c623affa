// Package inmemdb provides mutex-guarded in-memory repositories, used by tests and `-inmem` dev runs.
package inmemdb

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/order"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/ticket"
	"github.com/trezcool/shkola/core/user"
)

// DB holds every table. A single lock guards all of them so that joins see a consistent state.
type DB struct {
	mu       sync.RWMutex
	users    map[string]*user.User
	classes  map[string]*class.Class
	schedule map[string]*schedule.Item
	events   map[string]*calendar.Event
	orders   map[string]*order.Order
	tickets  map[string]*ticket.Ticket
}

func Open() *DB {
	return &DB{
		users:    make(map[string]*user.User),
		classes:  make(map[string]*class.Class),
		schedule: make(map[string]*schedule.Item),
		events:   make(map[string]*calendar.Event),
		orders:   make(map[string]*order.Order),
		tickets:  make(map[string]*ticket.Ticket),
	}
}

// Flush empties every table.
func (db *DB) Flush() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = make(map[string]*user.User)
	db.classes = make(map[string]*class.Class)
	db.schedule = make(map[string]*schedule.Item)
	db.events = make(map[string]*calendar.Event)
	db.orders = make(map[string]*order.Order)
	db.tickets = make(map[string]*ticket.Ticket)
}

// person must be called with db.mu held.
func (db *DB) person(id string) *user.Person {
	if usr, ok := db.users[id]; ok {
		return usr.Person()
	}
	return nil
}

// cascadeUser mirrors the foreign keys on users; it must be called with db.mu held.
func (db *DB) cascadeUser(id string) {
	for _, cls := range db.classes {
		if cls.ClassTeacherID.Valid && cls.ClassTeacherID.String == id {
			cls.ClassTeacherID = null.String{}
		}
	}
	for key, it := range db.schedule {
		if it.TeacherID == id {
			delete(db.schedule, key)
		}
	}
	for key, evt := range db.events {
		if evt.CreatedBy == id {
			delete(db.events, key)
		}
	}
	for key, ord := range db.orders {
		if ord.CreatedBy == id {
			delete(db.orders, key)
		}
	}
	for key, tkt := range db.tickets {
		if tkt.CreatedBy == id {
			delete(db.tickets, key)
		}
	}
}

// cascadeClass mirrors the foreign keys on classes; it must be called with db.mu held.
func (db *DB) cascadeClass(id string) {
	for key, it := range db.schedule {
		if it.ClassID == id {
			delete(db.schedule, key)
		}
	}
	for key, ord := range db.orders {
		if ord.ClassID == id {
			delete(db.orders, key)
		}
	}
}

type transactor struct{}

// NewTransactor returns a core.Transactor running fn directly; the in-memory tables have no rollback.
func NewTransactor() core.Transactor {
	return transactor{}
}

func (transactor) InTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	return fn(nil)
}

func newID() string {
	return uuid.New().String()
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
