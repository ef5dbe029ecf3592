// Package report implements the report lifecycle: grouping tasks by user,
// rendering report files, archiving the previous report and restoring it
// when a new one cannot be written.
package report

import (
	"sort"

	"task-reports/internal/models"
)

// UserTasks is one user together with the tasks it owns, completed first
type UserTasks struct {
	User  models.User
	Tasks []models.Task
}

// Group partitions tasks by owning user. Every user gets an entry, even
// without tasks. Within a user completed tasks come first and the input order
// is kept among tasks with the same status. Tasks of unknown users are dropped.
// The input slices are not modified.
func Group(users []models.User, tasks []models.Task) map[int]*UserTasks {
	groups := make(map[int]*UserTasks, len(users))
	for _, u := range users {
		groups[u.ID] = &UserTasks{User: u, Tasks: []models.Task{}}
	}

	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UserID != sorted[j].UserID {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].Completed && !sorted[j].Completed
	})

	for _, t := range sorted {
		group, ok := groups[t.UserID]
		if !ok {
			continue
		}
		group.Tasks = append(group.Tasks, t)
	}

	return groups
}

// SortedUserIDs returns the keys of groups in ascending order
func SortedUserIDs(groups map[int]*UserTasks) []int {
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
