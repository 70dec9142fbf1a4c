package results_test

import (
	"testing"

	"holofit/testutil"
)

func TestResultsDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/results defines the persistence contract, not its backends")
}

func TestResultsDoesNotImportStorage(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.StorageImportForbidden,
		"record types must not depend on concrete stores")
}
