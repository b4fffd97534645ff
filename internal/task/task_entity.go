package task

import (
	"strings"
	"time"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type Task struct {
	ID                   uint       `gorm:"primaryKey"`
	CompanyID            uint       `gorm:"not null;index:idx_tasks_company_created,priority:1"`
	Title                string     `gorm:"type:varchar(255);not null"`
	Description          *string    `gorm:"type:text"`
	Status               Status     `gorm:"type:varchar(20);not null"`
	Priority             Priority   `gorm:"type:varchar(20);not null"`
	DueDate              *time.Time `gorm:"type:date"`
	AssignedToEmployeeID *uint      `gorm:"index:idx_tasks_assignee"`
	CreatedByUserID      *uint
	CreatedAt            time.Time `gorm:"index:idx_tasks_company_created,priority:2"`
	UpdatedAt            time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// AssignedTo reports whether employeeID is the current assignee.
func (t *Task) AssignedTo(employeeID *uint) bool {
	return employeeID != nil && t.AssignedToEmployeeID != nil && *t.AssignedToEmployeeID == *employeeID
}

// ParseStatus accepts any letter case.
func ParseStatus(s string) (Status, bool) {
	switch v := Status(strings.ToUpper(strings.TrimSpace(s))); v {
	case StatusOpen, StatusInProgress, StatusClosed:
		return v, true
	}
	return "", false
}

// ParsePriority accepts any letter case.
func ParsePriority(s string) (Priority, bool) {
	switch v := Priority(strings.ToUpper(strings.TrimSpace(s))); v {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return v, true
	}
	return "", false
}
