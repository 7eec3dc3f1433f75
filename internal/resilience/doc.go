// Package resilience groups the fault tolerance helpers used for outbound
// notification traffic:
//   - circuitbreaker: per-channel breakers on top of sony/gobreaker
//   - retry: exponential backoff with jitter that honors Retry-After
//
// Storage calls do not go through either helper; a failed database call is
// returned to the caller as is.
//
//	b := circuitbreaker.New(circuitbreaker.ForChannel("slack"))
//	err := b.Run(func() error {
//	    return retry.Webhook().Do(ctx, send)
//	})
package resilience
