package issue

// Simplified statuses shown to users of standard findings.
const (
	SimpleStatusOpen          = "OPEN"
	SimpleStatusConfirmed     = "CONFIRMED"
	SimpleStatusFixed         = "FIXED"
	SimpleStatusAccepted      = "ACCEPTED"
	SimpleStatusFalsePositive = "FALSE_POSITIVE"
	SimpleStatusInSandbox     = "IN_SANDBOX"
)

// SimpleStatus collapses the status and resolution of a standard finding into
// a single value. It returns false for hotspots and for combinations that
// have no simplified form.
func SimpleStatus(f *Finding) (string, bool) {
	if f.IsHotspot() {
		return "", false
	}
	switch f.Status {
	case StatusOpen, StatusReopened:
		return SimpleStatusOpen, true
	case StatusConfirmed:
		return SimpleStatusConfirmed, true
	case StatusClosed:
		return SimpleStatusFixed, true
	case StatusInSandbox:
		return SimpleStatusInSandbox, true
	case StatusResolved:
		switch f.Resolution {
		case ResolutionFixed:
			return SimpleStatusFixed, true
		case ResolutionWontFix:
			return SimpleStatusAccepted, true
		case ResolutionFalsePositive:
			return SimpleStatusFalsePositive, true
		}
	}
	return "", false
}
