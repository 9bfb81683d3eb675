package easysock

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/factory"
	"github.com/sirupsen/logrus"
)

var (
	defaultOnce    sync.Once
	defaultBuilder *Builder
	defaultErr     error
)

// Default returns the process-wide Builder. It is built on first use from
// a factory.ProviderFactory, so EASYSOCK_* variables and EASYSOCK_CONFIG
// are read once.
func Default() (*Builder, error) {
	defaultOnce.Do(func() {
		defaultBuilder, defaultErr = FromFactory(factory.NewProviderFactory())
		if defaultErr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Default",
				"error":    defaultErr.Error(),
			}).Error("Failed to build default endpoint builder")
		}
	})
	return defaultBuilder, defaultErr
}

// FromFactory builds a Builder from the factory's current configuration.
func FromFactory(f *factory.ProviderFactory) (*Builder, error) {
	provider, err := f.CreateProvider()
	if err != nil {
		return nil, err
	}
	resolver, err := f.CreateResolver()
	if err != nil {
		return nil, err
	}
	config := f.GetCurrentConfig()
	return NewBuilder(provider, resolver,
		WithPolicy(config.Policy),
		WithResolveTimeout(time.Duration(config.ResolveTimeout)*time.Millisecond),
	), nil
}

// CreateLocal calls CreateLocal on the default Builder.
func CreateLocal(family endpoint.Family, transport endpoint.Transport, address string, port uint16) (Handle, error) {
	b, err := Default()
	if err != nil {
		return -1, err
	}
	return b.CreateLocal(family, transport, address, port)
}

// CreateRemote calls CreateRemoteContext on the default Builder.
func CreateRemote(ctx context.Context, family endpoint.Family, transport endpoint.Transport, address string, port uint16) (Handle, error) {
	b, err := Default()
	if err != nil {
		return -1, err
	}
	return b.CreateRemoteContext(ctx, family, transport, address, port)
}
