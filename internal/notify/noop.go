package notify

import "time"

// Disabled is the notifier used when no agent is reachable: every submission
// fails softly so the Scheduled flags stay false and a later rebuild can
// retry once the agent is back.
type Disabled struct{}

func (Disabled) RequestAuthorization(cb func(granted bool, err error)) {
	go cb(false, ErrAgentNotRunning)
}

func (Disabled) AuthorizationStatus(cb func(authorized bool)) {
	go cb(false)
}

func (Disabled) Submit(_ string, _ Content, _ time.Time, cb func(err error)) {
	go cb(ErrAgentNotRunning)
}

func (Disabled) Cancel(_ []string) {}

func (Disabled) PendingIDs(cb func(ids []string, err error)) {
	go cb(nil, ErrAgentNotRunning)
}
