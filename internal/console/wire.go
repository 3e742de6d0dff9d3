//go:build wireinject
// +build wireinject

package console

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	authclient "github.com/tair/catalog-console/internal/auth/client"
	catalogclient "github.com/tair/catalog-console/internal/catalog/client"
	"github.com/tair/catalog-console/internal/config"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/internal/web"
	"github.com/tair/catalog-console/kafka"
)

// Wire sets
var RemoteSet = wire.NewSet(
	ProvideRemoteMetrics,
	ProvideRemoteClient,
)

var SessionSet = wire.NewSet(
	ProvideSessionBackend,
	session.NewStore,
	ProvideAuthClient,
	wire.Bind(new(session.Authenticator), new(*authclient.AuthServiceClient)),
	session.NewManager,
)

var CatalogSet = wire.NewSet(
	ProvideCategoryCache,
	catalogclient.NewProductServiceClient,
	wire.Bind(new(web.Catalog), new(*catalogclient.ProductServiceClient)),
)

var WebSet = wire.NewSet(
	ProvideAuditPublisher,
	ProvideHealthChecker,
	ProvideRateLimiter,
	ProvideHTTPMetrics,
	ProvideServerOptions,
	web.NewRenderer,
	web.NewServer,
)

// InitializeServer builds the console. redisClient and publisher may be nil.
func InitializeServer(
	cfg *config.Config,
	redisClient *redis.Client,
	reg *prometheus.Registry,
	publisher *kafka.Publisher,
) (*web.Server, error) {
	wire.Build(
		RemoteSet,
		SessionSet,
		CatalogSet,
		WebSet,
	)
	return nil, nil
}
