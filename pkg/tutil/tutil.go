package tutil

import (
	"os"
	"strings"
)

// IsIntegrationTest is true when TAGSEARCH_TEST=integration. Tests that need a
// live OMERO gateway skip otherwise.
func IsIntegrationTest() bool {
	testType := os.Getenv("TAGSEARCH_TEST")
	return strings.ToLower(testType) == "integration"
}
