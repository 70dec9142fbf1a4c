package fit_test

import (
	"testing"

	"holofit/testutil"
)

func TestFitDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/fit must stay consumable without service infrastructure")
}

func TestFitDoesNotImportStorage(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.StorageImportForbidden,
		"model code must not know where results are stored")
}
