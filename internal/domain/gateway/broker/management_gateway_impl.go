package broker

import (
	"context"
	"fmt"
	"net/url"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/pkg/http"
)

// queueDetails is the subset of GET /api/queues/{vhost}/{queue} used here.
type queueDetails struct {
	Name            string            `json:"name"`
	ConsumerDetails []entity.Consumer `json:"consumer_details"`
}

type managementErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// managementGatewayImpl reads consumers from the RabbitMQ management HTTP API.
type managementGatewayImpl struct {
	httpClient   *http.Client
	defaultVHost string
}

var _ ConsumerGateway = (*managementGatewayImpl)(nil)

// NewManagementGateway creates a ConsumerGateway backed by the management API
// at baseUrl (for example http://rabbitmq:15672/api).
func NewManagementGateway(baseUrl string, defaultVHost string, clientOptions http.ClientOptions) ConsumerGateway {
	return &managementGatewayImpl{
		httpClient:   http.NewHttpClient(baseUrl, clientOptions),
		defaultVHost: defaultVHost,
	}
}

func (g *managementGatewayImpl) ListConsumers(ctx context.Context, vhost, queue string) ([]entity.Consumer, error) {
	if vhost == "" {
		vhost = g.defaultVHost
	}
	path := fmt.Sprintf("/queues/%s/%s", url.PathEscape(vhost), url.PathEscape(queue))

	successResp, errResp, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(path).
		WithSuccessResp(&queueDetails{}).
		WithErrorResp(&managementErrorResponse{}).
		Execute()

	if err == nil {
		details := successResp.(*queueDetails)
		return details.ConsumerDetails, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*managementErrorResponse)
		return nil, fmt.Errorf("management API returned %d: %s %s", status, errorResponse.Error, errorResponse.Reason)
	}

	return nil, err
}
