package constants

const (
	AppName            = "ritual"
	DefaultKeyringUser = "agent-secret"
	DefaultConfigPath  = "~/.config/ritual/ritual.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard fire-time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Agent constants
	AgentLockfileName  = "ritual-agent.lock"
	DefaultAgentListen = "127.0.0.1:0"
	AgentQueueSize     = 64

	// Tray delivery constants
	NotifierLockfileName   = "ritual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.ritual-app.ritual"

	// ReminderPrompt is the fixed subtitle attached to every scheduled reminder.
	ReminderPrompt = "Time to keep your habit going"
)
