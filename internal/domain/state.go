package domain

// FailedToLoadMessage is the only error text ever shown to the user. The
// actual cause goes to the diagnostic log.
const FailedToLoadMessage = "Failed to load metrics"

// ViewState is the state of a dashboard view. Exactly one of Loading, Failed
// or Ready is active at any time.
type ViewState interface {
	viewState()
}

// Loading is the initial state, held while the fetch is outstanding.
type Loading struct{}

// Failed means the fetch or the decode did not succeed.
type Failed struct {
	Message string
}

// Ready holds the payload of a successful fetch.
type Ready struct {
	Payload *MetricsPayload
}

func (Loading) viewState() {}
func (Failed) viewState()  {}
func (Ready) viewState()   {}
