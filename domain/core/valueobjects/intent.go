package valueobjects

import "strings"

// Intent classifies what a conversational message asks the system to do.
// It is produced by the intent-analysis step and drives workflow routing.
type Intent string

const (
	// IntentNoAction means the user wants information only; no card changes.
	IntentNoAction Intent = "NO_ACTION"

	// IntentCreateNew means the user wants a new knowledge card created.
	IntentCreateNew Intent = "CREATE_NEW"

	// IntentUpdate means the user wants an existing card modified.
	IntentUpdate Intent = "UPDATE"
)

// ParseIntent maps a model-produced action string onto a known Intent.
// Unrecognized values resolve to IntentNoAction: classification must
// degrade to the safest no-op, never fail.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentCreateNew:
		return IntentCreateNew
	case IntentUpdate:
		return IntentUpdate
	case IntentNoAction:
		return IntentNoAction
	default:
		return IntentNoAction
	}
}

// IsValid reports whether the intent is one of the known values.
func (i Intent) IsValid() bool {
	switch i {
	case IntentNoAction, IntentCreateNew, IntentUpdate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the intent.
func (i Intent) String() string {
	return string(i)
}
