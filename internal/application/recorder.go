package application

// Delivery outcomes passed to Recorder.RecordDelivery.
const (
	DeliveryServed   = "served"
	DeliveryDenied   = "denied"
	DeliveryNotFound = "not_found"
)

// Recorder receives catalog events for metrics. A nil Recorder is ignored.
type Recorder interface {
	RecordContentCreated(paywalled bool)
	RecordDelivery(outcome string)
	RecordReset(failedSteps int)
}
