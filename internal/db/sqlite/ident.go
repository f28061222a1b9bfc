package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
)

// RegistryTable holds the name and dimensions of every collection.
const RegistryTable = "chunkdex_collections"

// identPattern restricts collection and metadata field names to a safe
// identifier alphabet. Table and trigger names are interpolated into DDL, so
// nothing outside this set is ever accepted.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]{0,63}$`)

// ValidateCollectionName rejects names unusable as SQLite identifiers, plus
// names that would collide with schema objects the store itself owns: the
// registry table and the "vec_" index-table namespace. Without the
// reservation, CREATE TABLE IF NOT EXISTS silently adopts the existing object
// and later inserts fail with column errors.
func ValidateCollectionName(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCollectionName, name)
	}
	if name == RegistryTable || strings.HasPrefix(name, "vec_") {
		return fmt.Errorf("%w: %q is reserved", domain.ErrInvalidCollectionName, name)
	}
	return nil
}

// ValidateFieldName rejects metadata field names unusable in a JSON path.
func ValidateFieldName(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: bad field name %q", domain.ErrInvalidFilter, name)
	}
	return nil
}

// TableName returns the row table name for a collection.
func TableName(collection string) string { return collection }

// VecTableName returns the vector index table name for a collection.
func VecTableName(collection string) string { return "vec_" + collection }

// InsertTriggerName returns the row-to-index sync trigger name.
func InsertTriggerName(collection string) string { return "embed_text_" + collection }

// DeleteTriggerName returns the index cleanup trigger name.
func DeleteTriggerName(collection string) string { return "unembed_text_" + collection }
