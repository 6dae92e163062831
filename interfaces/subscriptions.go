package interfaces

import "myregistry/domain"

// SubscriptionCallback receives the full current instance set of the
// subscribed service whenever it changes. Callbacks run on a dedicated
// goroutine per subscription, in commit order for that subscription.
type SubscriptionCallback func(event domain.ChangeEvent)

// Subscriptions tracks interested parties per service and fans change
// notifications out to them.
//
//go:generate moq -stub -out mock/subscriptions.go -pkg mock . Subscriptions
type Subscriptions interface {
	// Subscribe registers a callback for changes to the service, optionally
	// restricted to the named clusters. Subscribing the same
	// (subscriberID, service, cluster set) twice returns the existing handle:
	// there is never more than one delivery stream per triple. The current
	// instance set is pushed immediately on subscribe.
	Subscribe(subscriberID string, key domain.ServiceKey, clusters []string, cb SubscriptionCallback) (string, error)

	// Unsubscribe removes the subscription for the handle. It is idempotent
	// and effective immediately: a change not yet dispatched to the callback
	// when Unsubscribe returns is never delivered.
	Unsubscribe(handle string) bool

	// Subscribers returns the total subscription count and one page of
	// subscriber rows for the console.
	Subscribers(pageNo, pageSize int) (int, []domain.SubscriberInfo)
}

// ChangeSink receives every committed registry change, unfiltered. Used by
// the snapshot layer to persist last-known-good instance sets.
type ChangeSink interface {
	OnChange(event domain.ChangeEvent)
}
