package mailer

import "context"

// Message is the dispatch contract: who sends, who receives, and the
// rendered bodies. Transport details stay behind Dispatcher.
type Message struct {
	Sender     string
	Recipients []string
	Subject    string
	TextBody   string
	HTMLBody   string
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}
