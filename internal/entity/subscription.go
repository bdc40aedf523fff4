package entity

// SubscriptionKeys holds the client key material needed to encrypt push
// messages for one browser installation.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// Subscription is one stored push subscription. The endpoint is the
// identity; there is at most one record per endpoint.
type Subscription struct {
	Endpoint string           `json:"endpoint" binding:"required"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}
