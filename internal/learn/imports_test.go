package learn

import (
	"testing"

	"hcroi/testutil"
)

func TestNoStorageOrRenderImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ComputeImportForbidden, "learn is pure computation")
}

func TestNoTransitiveStorageDependency(t *testing.T) {
	if testing.Short() {
		t.Skip("shells out to go list")
	}
	testutil.AssertNoTransitiveDependency(t, ".", testutil.StorageImportForbidden, "model selection must not reach storage drivers")
}
