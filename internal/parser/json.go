package parser

import (
	"encoding/json"
	"fmt"

	"task-reports/internal/models"
)

// ParseUsers validates a raw users payload and decodes it into typed records
// Validation happens first so decoding never sees a malformed shape
func ParseUsers(raw []byte) ([]models.User, error) {
	if err := ValidateUsers(raw); err != nil {
		return nil, err
	}

	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// ParseTasks validates a raw tasks payload and decodes it into typed records
func ParseTasks(raw []byte) ([]models.Task, error) {
	if err := ValidateTasks(raw); err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	return tasks, nil
}
