package blob

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestInfraDriversStayBehindFacades ensures that storage drivers are only
// imported by their facade package. Everything else depends on the
// blob.Store and ledger.Store interfaces.
func TestInfraDriversStayBehindFacades(t *testing.T) {
	boundaries := []struct {
		infra   string
		allowed string
	}{
		{infra: "hcroi/internal/infra/blob", allowed: "hcroi/internal/blob"},
		{infra: "hcroi/internal/infra/ledger", allowed: "hcroi/internal/ledger"},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "hcroi/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatal("no packages loaded")
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for _, b := range boundaries {
			if hasPathPrefix(pkg.PkgPath, b.allowed) || hasPathPrefix(pkg.PkgPath, b.infra) {
				continue
			}
			for importPath := range pkg.Imports {
				if hasPathPrefix(importPath, b.infra) {
					seen[filepath.Join(pkg.PkgPath, "...")+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of infra driver package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of infra driver packages", len(violations))
	}
}

func hasPathPrefix(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
