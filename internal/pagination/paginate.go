// Package pagination runs filtered, sorted and paged reads over a document
// collection and returns one page plus metadata. It holds no state; every
// call depends only on its arguments and the collection contents.
package pagination

import (
	"context"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
)

// Query is what a collection receives for the page read.
type Query struct {
	Filter   Filter
	Sort     []SortField
	Skip     int
	Limit    int
	Populate []string
}

// Collection is the document store the engine reads from.
type Collection[T any] interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Find(ctx context.Context, q Query) ([]T, error)
}

// Populator replaces reference ids with referenced documents on a page, in
// place. Stored data is never touched.
type Populator[T any] func(ctx context.Context, docs []T) error

// RelationSource is implemented by collections that can expand references.
// The keys are the relation field names accepted in Options.Populate.
type RelationSource[T any] interface {
	Relations() map[string]Populator[T]
}

// Snapshotter is implemented by collections able to serve count, find and
// populate from one consistent snapshot. Without it the count and the page
// may observe different states if a write lands in between.
type Snapshotter[T any] interface {
	Snapshot(ctx context.Context, fn func(Collection[T]) error) error
}

// Named collections get their name in UnavailableError.
type Named interface {
	Name() string
}

// QueryResult is one page plus metadata.
type QueryResult[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

// Paginate returns page opts.Page of the documents in coll matching filter.
//
// Invalid limit/page values fail with domain.ValidationError. Any collection
// failure fails the whole call with domain.UnavailableError (typed domain
// errors from the collection pass through as they are); no partial page is
// ever returned and nothing is retried.
func Paginate[T any](ctx context.Context, coll Collection[T], filter Filter, opts Options) (QueryResult[T], error) {
	limit, page, err := opts.bounds()
	if err != nil {
		return QueryResult[T]{}, err
	}
	if filter == nil {
		filter = Filter{}
	}

	q := Query{
		Filter: filter,
		Sort:   ParseSort(opts.SortBy),
		Skip:   (page - 1) * limit,
		Limit:  limit,
	}
	requested := ParsePopulate(opts.Populate)

	var (
		total int64
		docs  []T
	)
	run := func(c Collection[T]) error {
		relations := relationsOf(c)
		q.Populate = knownRelations(requested, relations)

		n, err := c.Count(ctx, q.Filter)
		if err != nil {
			return err
		}
		found, err := c.Find(ctx, q)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			for _, name := range q.Populate {
				if err := relations[name](ctx, found); err != nil {
					return err
				}
			}
		}
		total, docs = n, found
		return nil
	}

	if s, ok := coll.(Snapshotter[T]); ok {
		err = s.Snapshot(ctx, run)
	} else {
		err = run(coll)
	}
	if err != nil {
		return QueryResult[T]{}, unavailable(coll, err)
	}

	if docs == nil {
		docs = []T{}
	}
	return QueryResult[T]{
		Results:      docs,
		Page:         page,
		Limit:        limit,
		TotalPages:   TotalPages(total, limit),
		TotalResults: total,
	}, nil
}

// TotalPages is ceil(total/limit), never less than 1.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

func relationsOf[T any](c Collection[T]) map[string]Populator[T] {
	if rs, ok := c.(RelationSource[T]); ok {
		return rs.Relations()
	}
	return nil
}

// knownRelations keeps requested names that the collection can expand.
// Unknown names are ignored so stale client query strings still work.
func knownRelations[T any](requested []string, relations map[string]Populator[T]) []string {
	var out []string
	for _, name := range requested {
		if p, ok := relations[name]; ok && p != nil {
			out = append(out, name)
		}
	}
	return out
}

func unavailable[T any](coll Collection[T], err error) error {
	if domain.IsDomain(err) {
		return err
	}
	resource := ""
	if n, ok := coll.(Named); ok {
		resource = n.Name()
	}
	return domain.UnavailableError{Resource: resource, Err: err}
}
