package models

// Decision is user's answer on the consent screen
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionAllow
)

func (d Decision) String() string {
	if d == DecisionAllow {
		return "allow"
	}
	return "deny"
}

// ParseDecision accepts only "allow" and "deny"
func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "allow":
		return DecisionAllow, true
	case "deny":
		return DecisionDeny, true
	}
	return DecisionDeny, false
}

// ConsentAction is the payload expected by the consent call for a given decision
type ConsentAction struct {
	State    string `json:"state"`
	Decision string `json:"decision"`
}

// ConsentDescriptor describes the pending authorization request to render a consent screen.
// RedirectURL is filled only when consent was skipped for an already granted client.
type ConsentDescriptor struct {
	ClientName           string                   `json:"client_name"`
	UserName             string                   `json:"user_name"`
	RequestedPermissions []string                 `json:"requested_permissions"`
	State                string                   `json:"state"`
	Actions              map[string]ConsentAction `json:"actions"`
	RedirectURL          string                   `json:"redirect_url,omitempty"`
}
