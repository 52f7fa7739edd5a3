package gateway_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestGatewaySuite(t *testing.T) {
	gomega.RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Rendezvous Suite")
}
