package class

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

type Class struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	ClassTeacherID null.String  `json:"class_teacher_id"`
	ClassTeacher   *user.Person `json:"class_teacher,omitempty"`
	CreatedAt      time.Time    `json:"created_at"` // UTC
}

// Ref is the short form of a Class embedded in other resources.
func (c Class) Ref() *Ref {
	return &Ref{ID: c.ID, Name: c.Name}
}

type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NewClass struct {
	Name string `json:"name" validate:"required,max=32"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type SetClassTeacher struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (st *SetClassTeacher) Validate(validate *validator.Validate) error {
	st.TeacherID = core.CleanString(st.TeacherID)
	return validate.Struct(st)
}
