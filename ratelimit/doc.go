// Package ratelimit implements fixed-window request counting keyed by caller
// identity or IP, with independent named policies per endpoint class.
//
// A window starts on the first request for a key (or when the previous
// window has elapsed) and runs for the policy's window length. Every call to
// Check counts, admitted or rejected; a request is rejected once the window
// count exceeds the policy maximum, with a retry hint computed from the
// remaining window. Endpoints that only want failures to count (login
// attempts are the usual case) call Reset on success to clear the key.
//
// State lives in-process for the limiter's lifetime and is mutex-guarded; a
// background sweep discards entries whose window has fully elapsed so memory
// stays bounded by the active key set.
package ratelimit
