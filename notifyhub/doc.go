// Package notifyhub provides an ordered subscription registry with
// synchronous notification fan-out.
//
// Subscribers register with a Registry and receive every notification in
// registration order. Registration returns a Subscription carrying an
// opaque SubscriptionID; removal is keyed by that token, so registering
// the same subscriber twice yields two independently removable
// subscriptions.
//
// Delivery is strictly synchronous and sequential: NotifyAll walks a
// snapshot of the subscription sequence taken at the start of the round,
// so concurrent Register/Remove calls take effect the next round. By
// default delivery is best-effort (a failing subscriber never starves the
// ones behind it); WithFailFast switches a registry to abort-on-first-error.
//
// Key types:
//   - Registry: Owns the ordered subscription sequence
//   - Notification: The broadcast payload (scalar DTO with JSON payload/metadata)
//   - Subscriber: The receive capability, adaptable from a func via SubscriberFunc
//   - DeliveryRecord: Per-subscriber result of a notify round
//   - Filter: Criteria for querying recorded deliveries back from a journal
//
// Common usage pattern:
//
//	registry, err := notifyhub.NewRegistry()
//	if err != nil {
//		// handle error
//	}
//
//	sub := registry.Register(notifyhub.SubscriberFunc(
//		func(ctx context.Context, n notifyhub.Notification) error {
//			// react to the notification
//			return nil
//		}))
//
//	notification, err := notifyhub.BuildNotificationWithEmptyMetadata(
//		"PriceTickObserved", time.Now(), payload)
//	if err != nil {
//		// handle error
//	}
//
//	if err := registry.NotifyAll(ctx, notification); err != nil {
//		// one or more subscribers failed, inspect with errors.Is
//	}
//
//	sub.Cancel()
package notifyhub
