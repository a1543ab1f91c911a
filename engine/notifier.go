package engine

import "context"

// Notifier delivers single-use tokens to the account owner, typically
// by email. The raw token value passes through here exactly once; it
// is never stored or logged.
type Notifier interface {
	DeliverVerification(ctx context.Context, email, rawToken string) error
	DeliverReset(ctx context.Context, email, rawToken string) error
}

// NopNotifier discards deliveries. Useful in tests and in deployments
// where an outer layer handles delivery from the issue calls' returns.
type NopNotifier struct{}

func (NopNotifier) DeliverVerification(context.Context, string, string) error { return nil }
func (NopNotifier) DeliverReset(context.Context, string, string) error       { return nil }
