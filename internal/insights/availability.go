package insights

// Availability is the orchestrator's view of whether the model runtime can be
// used at all. It starts Unknown and is resolved exactly once per
// orchestrator instance.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// UnavailableReason classifies why the model runtime cannot be used.
type UnavailableReason string

const (
	ReasonDeviceNotEligible UnavailableReason = "device_not_eligible"
	ReasonFeatureNotEnabled UnavailableReason = "feature_not_enabled"
	ReasonModelNotReady     UnavailableReason = "model_not_ready"
	ReasonOther             UnavailableReason = "other"
)

// Message returns the fixed user-facing string for the reason. Reasons
// without a dedicated string share the generic fallback.
func (r UnavailableReason) Message() string {
	switch r {
	case ReasonDeviceNotEligible:
		return "Insights not supported on this device"
	case ReasonFeatureNotEnabled:
		return "Apple Intelligence not enabled"
	default:
		return "Model unavailable"
	}
}
