package colleges

import "time"

// College is a name and department pair students can be assigned to.
type College struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" validate:"required,max=100"`
	Department string    `json:"department" validate:"required,max=100"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c College) String() string {
	return c.Name + " - " + c.Department
}
