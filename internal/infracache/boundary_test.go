package infracache

import (
	"testing"

	"infracheck/testutil"
)

func TestCacheDoesNotImportPersistence(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.PersistenceImport, "the cache is filled from documents, never from stores")
}
