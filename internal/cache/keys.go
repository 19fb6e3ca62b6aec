package cache

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/mailpulse/internal/domain"
)

// Namespace prefixes every key this package writes. The version segment
// doubles as a payload-format version: bumping it orphans (and eventually
// expires) entries written by older code.
const Namespace = "mailpulse:v1:"

// QueryKey derives the deterministic cache key for a multi-entity query.
// Two logically identical queries — same operation, same id set in any
// order, same bounds, same filters regardless of map iteration order —
// produce the same key.
//
// Layout: mailpulse:v1:{kind}:query:{op}:{digest}. All multi-entity keys
// for a kind share the {kind}:query: prefix so a mutation to any entity of
// that kind can drop them in one prefix delete.
func QueryKey(op string, kind domain.EntityKind, ids []string, rng domain.DateRange, filters map[string]string) string {
	return fmt.Sprintf("%s%s:query:%s:%s", Namespace, kind, op, digest(op, kind, ids, rng, filters))
}

// EntityKey derives the cache key for a single-entity operation. It lives
// under EntityPrefix(kind, id) so the entry can be invalidated selectively
// when that entity's raw metrics change.
func EntityKey(op string, kind domain.EntityKind, id string, rng domain.DateRange, filters map[string]string) string {
	return EntityPrefix(kind, id) + op + ":" + digest(op, kind, []string{id}, rng, filters)
}

// EntityPrefix is the invalidation prefix for one entity's cached results.
func EntityPrefix(kind domain.EntityKind, id string) string {
	return fmt.Sprintf("%s%s:entity:%s:", Namespace, kind, id)
}

// KindPrefix is the invalidation prefix for every cached result of a kind.
func KindPrefix(kind domain.EntityKind) string {
	return fmt.Sprintf("%s%s:", Namespace, kind)
}

// QueryPrefix is the invalidation prefix for all multi-entity queries of a
// kind (used alongside EntityPrefix: a list query may include any entity).
func QueryPrefix(kind domain.EntityKind) string {
	return fmt.Sprintf("%s%s:query:", Namespace, kind)
}

// digest canonicalizes the query shape into a stable serialization and
// hashes it. Hashing keeps keys bounded no matter how many ids a query
// names.
func digest(op string, kind domain.EntityKind, ids []string, rng domain.DateRange, filters map[string]string) string {
	sortedIDs := make([]string, len(ids))
	copy(sortedIDs, ids)
	sort.Strings(sortedIDs)

	filterKeys := make([]string, 0, len(filters))
	for k := range filters {
		filterKeys = append(filterKeys, k)
	}
	sort.Strings(filterKeys)

	var b strings.Builder
	b.WriteString(op)
	b.WriteByte('|')
	b.WriteString(string(kind))
	b.WriteByte('|')
	b.WriteString(strings.Join(sortedIDs, ","))
	b.WriteByte('|')
	b.WriteString(rng.Start)
	b.WriteByte('|')
	b.WriteString(rng.End)
	for _, k := range filterKeys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(filters[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:16])
}
