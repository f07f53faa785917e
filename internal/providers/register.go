package providers

// Blank imports trigger each adapter's init() registration with the
// registry. Adding a provider means implementing lookup.Provider in a new
// package and listing it here.
import (
	_ "github.com/openshelf/openshelf/internal/providers/googlebooks"
	_ "github.com/openshelf/openshelf/internal/providers/loc"
	_ "github.com/openshelf/openshelf/internal/providers/openlibrary"
	_ "github.com/openshelf/openshelf/internal/providers/wikidata"
)
