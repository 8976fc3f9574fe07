package features

import (
	"testing"

	"hcroi/testutil"
)

func TestNoStorageOrRenderImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ComputeImportForbidden, "features is pure computation")
}
