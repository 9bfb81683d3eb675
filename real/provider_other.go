//go:build !unix

package real

import (
	"errors"

	"github.com/opd-ai/easysock/endpoint"
)

// Provider reports every operation as unsupported on platforms without
// BSD socket syscalls.
type Provider struct{}

// NewProvider creates a provider that always fails.
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) CreateSocket(endpoint.Family, endpoint.Transport) (int, error) {
	return -1, errors.ErrUnsupported
}

func (p *Provider) Bind(int, endpoint.Endpoint) error {
	return errors.ErrUnsupported
}

func (p *Provider) Connect(int, endpoint.Endpoint) error {
	return errors.ErrUnsupported
}

func (p *Provider) Close(int) error {
	return errors.ErrUnsupported
}

func (p *Provider) IsSimulation() bool {
	return false
}
