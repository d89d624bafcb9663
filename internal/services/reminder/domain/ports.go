// Package domain holds the reminder service ports
package domain

import "context"

// NotifierPort delivers one reminder to the user
type NotifierPort interface {
	Notify(ctx context.Context, title, message string) error
}
