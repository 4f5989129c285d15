package messaging

// MockSender is a no-op Sender for tests and for running the server
// without a Kafka broker configured.
type MockSender struct {
	Sent []ExecutionReport
}

// NewMockSender constructs a MockSender that records every report it's
// asked to send.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(report ExecutionReport) error {
	m.Sent = append(m.Sent, report)
	return nil
}

func (m *MockSender) Close() error { return nil }

var _ Sender = (*MockSender)(nil)
