package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/khoahotran/me-api/pkg/apperror"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const pgUniqueViolation = "23505"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into an ILIKE pattern matching it literally
// anywhere in the column.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// linkRows builds CopyFrom rows for an association table keyed by profile.
func linkRows(profileID int64, childIDs []int64) pgx.CopyFromSource {
	rows := make([][]any, len(childIDs))
	for i, id := range childIDs {
		rows[i] = []any{profileID, id}
	}
	return pgx.CopyFromRows(rows)
}

// uniqueIDs keeps the first occurrence of each id so association inserts never
// trip the composite primary key.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// replaceLinks clears the association set of a profile and links childIDs.
// The child rows themselves are left in place.
func replaceLinks(ctx context.Context, q querier, table, childColumn string, profileID int64, childIDs []int64) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE profile_id = $1`, table)
	if _, err := q.Exec(ctx, deleteQuery, profileID); err != nil {
		return apperror.NewInternal(fmt.Sprintf("failed to clear %s", table), err)
	}

	ids := uniqueIDs(childIDs)
	if len(ids) == 0 {
		return nil
	}

	_, err := q.CopyFrom(
		ctx,
		pgx.Identifier{table},
		[]string{"profile_id", childColumn},
		linkRows(profileID, ids),
	)
	if err != nil {
		return apperror.NewInternal(fmt.Sprintf("failed to link %s", table), err)
	}
	return nil
}
