package services

import (
	"context"
	"strings"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/metrics"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
	"github.com/andyriles/meal-ordering-service-backend/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	newID = uuid.NewString
	now   = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
)

// validateID checks that id looks like a stored document id.
func validateID(field, id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return domain.ValidationError{Field: field, Msg: "must be a valid id", Err: err}
	}
	return nil
}

func validateIDs(field string, ids []string) error {
	for _, id := range ids {
		if err := validateID(field, id); err != nil {
			return err
		}
	}
	return nil
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.TrimSpace(id))
	}
	return out
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

// requireFields takes field/value pairs and reports the first blank one.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := required(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// queryPage runs one paginated query and records its duration and outcome.
func queryPage[T any](ctx context.Context, module string, coll pagination.Collection[T], filter pagination.Filter, opts pagination.Options) (pagination.QueryResult[T], error) {
	start := time.Now()
	res, err := pagination.Paginate(ctx, coll, filter, opts)

	name := module
	if n, ok := coll.(pagination.Named); ok {
		name = n.Name()
	}
	metrics.ObservePaginate(name, outcome(err), time.Since(start))

	if err != nil {
		if !domain.IsValidation(err) {
			utils.LogError(utils.RequestIDFrom(ctx), module, "query", err)
		}
		return pagination.QueryResult[T]{}, err
	}
	return res, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}

func logDone(ctx context.Context, module, action, message, id string) {
	utils.LogEvent(utils.RequestIDFrom(ctx), module, action, message, zap.String("id", id))
}
