package broker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-heartbeat/internal/domain/entity"
	httpclient "go-heartbeat/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagementGateway_ListConsumers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/queues/%2F/orders", r.URL.EscapedPath())
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "guest", user)
		assert.Equal(t, "guest", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "orders",
			"consumers": 2,
			"consumer_details": [
				{"consumer_tag": "worker-07", "activity_status": "up", "prefetch_count": 1},
				{"consumer_tag": "worker-08", "activity_status": "down"}
			]
		}`))
	}))
	defer server.Close()

	gateway := NewManagementGateway(server.URL+"/api", "/", httpclient.ClientOptions{
		BasicAuth: &httpclient.BasicAuth{Username: "guest", Password: "guest"},
	})

	consumers, err := gateway.ListConsumers(context.Background(), "", "orders")

	require.NoError(t, err)
	assert.Equal(t, []entity.Consumer{
		{ConsumerTag: "worker-07", ActivityStatus: "up"},
		{ConsumerTag: "worker-08", ActivityStatus: "down"},
	}, consumers)
}

func TestManagementGateway_QueueVHostOverridesDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/queues/lega/inbox", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"name":"inbox"}`))
	}))
	defer server.Close()

	gateway := NewManagementGateway(server.URL+"/api", "/", httpclient.ClientOptions{})

	consumers, err := gateway.ListConsumers(context.Background(), "lega", "inbox")

	require.NoError(t, err)
	assert.Empty(t, consumers)
}

func TestManagementGateway_NotFoundIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Object Not Found","reason":"Not Found"}`))
	}))
	defer server.Close()

	gateway := NewManagementGateway(server.URL+"/api", "/", httpclient.ClientOptions{})

	consumers, err := gateway.ListConsumers(context.Background(), "", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Nil(t, consumers)
}

func TestManagementGateway_Latin1ConsumerTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=ISO-8859-1")
		_, _ = w.Write([]byte("{\"name\":\"orders\",\"consumer_details\":[{\"consumer_tag\":\"w\xf6rker-07\",\"activity_status\":\"up\"}]}"))
	}))
	defer server.Close()

	gateway := NewManagementGateway(server.URL+"/api", "/", httpclient.ClientOptions{})

	consumers, err := gateway.ListConsumers(context.Background(), "", "orders")

	require.NoError(t, err)
	assert.Equal(t, []entity.Consumer{{ConsumerTag: "wörker-07", ActivityStatus: "up"}}, consumers)
}
