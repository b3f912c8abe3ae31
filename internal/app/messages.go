package app

import "github.com/zjrosen/flowgen/internal/session"

// runDoneMsg is sent when a Runner.Run call returns. The session outcome
// itself arrives through the event broker.
type runDoneMsg struct {
	token session.Token
	err   error
}

// exportDoneMsg reports the result of a copy, download or svg export.
type exportDoneMsg struct {
	action  string
	message string
	err     error
}

type prefsSavedMsg struct {
	err error
}
