package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtolk/amocrm-radicalmart/pkg/config"
)

func TestSubscriptionResourceName(t *testing.T) {
	c := &Client{projectID: "shop-prod"}

	require.Equal(t, "projects/shop-prod/subscriptions/orders", c.subscriptionResourceName("orders"))
	require.Equal(t, "projects/other/subscriptions/orders", c.subscriptionResourceName("projects/other/subscriptions/orders"))
	require.Empty(t, c.subscriptionResourceName("  "))
	require.Empty(t, (&Client{}).subscriptionResourceName("orders"))
}

func TestClientOptions(t *testing.T) {
	require.Empty(t, clientOptions(config.GCPConfig{ProjectID: "p"}))
	require.Len(t, clientOptions(config.GCPConfig{ProjectID: "p", CredentialsJSON: `{"type":"service_account"}`}), 1)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	require.Nil(t, c.OrdersSubscription())
	require.NoError(t, c.Close())
	require.Error(t, c.Ping(context.Background()))
}

func TestOrdersSubscriptionWithoutClient(t *testing.T) {
	c := &Client{projectID: "shop-prod", cfg: config.PubSubConfig{OrdersSubscription: "orders"}}
	require.Nil(t, c.OrdersSubscription())
}
