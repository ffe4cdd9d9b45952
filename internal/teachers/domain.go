package teachers

import "errors"

// ErrNotFound indicates the teacher does not belong to the center.
var ErrNotFound = errors.New("teachers: not found")

// Teacher is an instructor listed on a center profile.
type Teacher struct {
	ID       int64    `json:"id"`
	CenterID int64    `json:"center_id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
	Bio      string   `json:"bio,omitempty"`
	Phone    string   `json:"phone,omitempty"`
}

// Input is the form a center admin submits to add a teacher.
type Input struct {
	Name     string   `validate:"required,min=2,max=120"`
	Subjects []string `validate:"required,min=1,dive,required"`
	Bio      string   `validate:"max=1000"`
	Phone    string   `validate:"omitempty,e164"`
}
