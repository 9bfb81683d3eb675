package main

import (
	"github.com/opd-ai/easysock"
	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
	"github.com/opd-ai/easysock/limits"
	"github.com/sirupsen/logrus"
)

// defaultBuilder is swapped out by tests.
var defaultBuilder = easysock.Default

// parseArgs converts the legacy integer arguments. The family is checked
// before the transport, and both before the port.
func parseArgs(network int, transport byte, port int) (endpoint.Family, endpoint.Transport, uint16, error) {
	family, err := endpoint.ParseFamily(network)
	if err != nil {
		return 0, 0, 0, err
	}
	kind, err := endpoint.ParseTransport(transport)
	if err != nil {
		return 0, 0, 0, err
	}
	p, err := limits.ValidatePort(port)
	if err != nil {
		return 0, 0, 0, err
	}
	return family, kind, p, nil
}

// legacyResult turns a handle/error pair into the single integer the C
// API returns.
func legacyResult(function string, h easysock.Handle, err error) int {
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": function,
			"error":    err.Error(),
			"code":     errs.Legacy(err),
		}).Debug("Legacy call failed")
		return errs.Legacy(err)
	}
	return int(h)
}

func createSocket(network int, transport byte) int {
	family, err := endpoint.ParseFamily(network)
	if err != nil {
		return errs.Legacy(err)
	}
	kind, err := endpoint.ParseTransport(transport)
	if err != nil {
		return errs.Legacy(err)
	}
	b, err := defaultBuilder()
	if err != nil {
		return legacyResult("create_socket", -1, err)
	}
	h, err := b.CreateSocket(family, kind)
	return legacyResult("create_socket", h, err)
}

func createLocal(network int, transport byte, address string, port int) int {
	family, kind, p, err := parseArgs(network, transport, port)
	if err != nil {
		return errs.Legacy(err)
	}
	b, err := defaultBuilder()
	if err != nil {
		return legacyResult("create_local", -1, err)
	}
	h, err := b.CreateLocal(family, kind, address, p)
	return legacyResult("create_local", h, err)
}

func createRemote(network int, transport byte, address string, port int) int {
	family, kind, p, err := parseArgs(network, transport, port)
	if err != nil {
		return errs.Legacy(err)
	}
	b, err := defaultBuilder()
	if err != nil {
		return legacyResult("create_remote", -1, err)
	}
	h, err := b.CreateRemote(family, kind, address, p)
	return legacyResult("create_remote", h, err)
}

func checkIPVer(address string) int {
	return endpoint.Classify(address).Legacy()
}

func intToInet(network int) int {
	family, err := endpoint.ParseFamily(network)
	if err != nil {
		return errs.Legacy(err)
	}
	af, err := family.AF()
	if err != nil {
		return errs.Legacy(err)
	}
	return af
}

func inetToInt(af int) int {
	family, err := endpoint.FamilyFromAF(af)
	if err != nil {
		return errs.Legacy(err)
	}
	return family.Legacy()
}

func charToSocktype(transport byte) int {
	kind, err := endpoint.ParseTransport(transport)
	if err != nil {
		return errs.Legacy(err)
	}
	sotype, err := kind.SockType()
	if err != nil {
		return errs.Legacy(err)
	}
	return sotype
}
