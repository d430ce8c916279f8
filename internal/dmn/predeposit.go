package dmn

import (
	"net/url"
	"sync"
)

// PreDepositMode selects how the pre-deposit DMN endpoint answers.
type PreDepositMode string

const (
	ModeAlwaysAccept          PreDepositMode = "always_accept"
	ModeDeclineWithMessage    PreDepositMode = "decline_with_message"
	ModeDeclineWithoutMessage PreDepositMode = "decline_without_message"
)

// DefaultDeclineMessage is used when decline_with_message has no message set.
const DefaultDeclineMessage = "Your attempt has been declined."

// ValidPreDepositMode reports whether s is one of the known modes.
func ValidPreDepositMode(s string) bool {
	switch PreDepositMode(s) {
	case ModeAlwaysAccept, ModeDeclineWithMessage, ModeDeclineWithoutMessage:
		return true
	}
	return false
}

// PreDepositConfig is the process-scoped decision state for pre-deposit
// DMNs. It is operator-set and never consulted by URL signing or the proxy.
type PreDepositConfig struct {
	mu             sync.Mutex
	mode           PreDepositMode
	declineMessage string
}

func NewPreDepositConfig() *PreDepositConfig {
	return &PreDepositConfig{
		mode:           ModeAlwaysAccept,
		declineMessage: DefaultDeclineMessage,
	}
}

// Get returns the current mode and decline message.
func (c *PreDepositConfig) Get() (PreDepositMode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.declineMessage
}

// Set updates the mode and, for decline_with_message only, the message.
// A blank message in that mode falls back to the default. Unknown modes are
// ignored.
func (c *PreDepositConfig) Set(mode PreDepositMode, declineMessage *string) {
	if !ValidPreDepositMode(string(mode)) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	if mode == ModeDeclineWithMessage && declineMessage != nil {
		if *declineMessage == "" {
			c.declineMessage = DefaultDeclineMessage
		} else {
			c.declineMessage = *declineMessage
		}
	}
}

// Decision renders the body the provider expects: "action=APPROVE", or
// "action=DECLINE" with an optional url-encoded message.
func (c *PreDepositConfig) Decision() string {
	mode, msg := c.Get()
	switch {
	case mode == ModeAlwaysAccept:
		return "action=APPROVE"
	case mode == ModeDeclineWithMessage && msg != "":
		return "action=DECLINE&message=" + url.QueryEscape(msg)
	default:
		return "action=DECLINE"
	}
}
