package coord_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCoord(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Coord Suite")
}
