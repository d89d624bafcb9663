// Package domain holds the schedules service types and ports
package domain

import "time"

// Schedule is one stored appointment
type Schedule struct {
	ID              int64      `json:"id"`
	Event           string     `json:"event"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Location        string     `json:"location"`
	ReminderMinutes int        `json:"reminder_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}
