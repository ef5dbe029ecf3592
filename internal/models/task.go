package models

import "fmt"

// Task represents a single todo item returned by the tasks endpoint
// UserID links the task to exactly one User
type Task struct {
	UserID    int    `json:"userId"`
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// String returns a human-readable representation of the task
func (t Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] #%d %s (user %d)", mark, t.ID, t.Title, t.UserID)
}
