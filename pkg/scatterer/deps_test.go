package scatterer_test

import (
	"testing"

	"holofit/testutil"
)

func TestScattererDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/scatterer must stay consumable without service infrastructure")
}

func TestScattererDoesNotImportStorage(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.StorageImportForbidden,
		"geometry code must not know where results are stored")
}
