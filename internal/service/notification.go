package service

import "fmt"

// EventBrowserNotification is emitted with a *Notification after every browser
// action that produces one.
const EventBrowserNotification = "browser:notification"

// NotificationKind categorizes a browser notification.
type NotificationKind string

const (
	NotifyConnectionError NotificationKind = "connection-error"
	NotifyTableLoadError  NotificationKind = "table-load-error"
	NotifyQueryBlocked    NotificationKind = "query-blocked"
	NotifyQueryExecuted   NotificationKind = "query-executed"
	NotifyQueryError      NotificationKind = "query-error"
)

// Level is the display severity of a notification.
type Level string

const (
	LevelDanger  Level = "danger"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
)

// Notification is a user-facing message produced by a browser action.
type Notification struct {
	Kind  NotificationKind `json:"kind"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Level Level            `json:"level"`

	Verb    string `json:"verb,omitempty"`    // query-blocked
	Count   int    `json:"count,omitempty"`   // query-executed
	Message string `json:"message,omitempty"` // error kinds
}

func connectionErrorNotice(err error) *Notification {
	return &Notification{
		Kind:    NotifyConnectionError,
		Title:   "Connection Error",
		Body:    "Could not connect to database: " + err.Error(),
		Level:   LevelDanger,
		Message: err.Error(),
	}
}

func tablesErrorNotice(err error) *Notification {
	return &Notification{
		Kind:    NotifyConnectionError,
		Title:   "Error Loading Tables",
		Body:    "Could not load tables: " + err.Error(),
		Level:   LevelDanger,
		Message: err.Error(),
	}
}

func tableLoadErrorNotice(err error) *Notification {
	return &Notification{
		Kind:    NotifyTableLoadError,
		Title:   "Error Loading Table Data",
		Body:    "Could not load table data: " + err.Error(),
		Level:   LevelDanger,
		Message: err.Error(),
	}
}

func queryBlockedNotice(verb string) *Notification {
	return &Notification{
		Kind:  NotifyQueryBlocked,
		Title: "Query Blocked",
		Body:  fmt.Sprintf("Dangerous operations (%s) are not allowed for security reasons.", verb),
		Level: LevelWarning,
		Verb:  verb,
	}
}

func queryExecutedNotice(count int) *Notification {
	return &Notification{
		Kind:  NotifyQueryExecuted,
		Title: "Query Executed",
		Body:  fmt.Sprintf("Query executed successfully. Returned %d rows.", count),
		Level: LevelSuccess,
		Count: count,
	}
}

func queryErrorNotice(message string) *Notification {
	return &Notification{
		Kind:    NotifyQueryError,
		Title:   "Query Error",
		Body:    "Query failed: " + message,
		Level:   LevelDanger,
		Message: message,
	}
}
