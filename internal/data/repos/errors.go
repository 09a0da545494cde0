package repos

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ConstraintKind is a store-independent category for integrity violations
// raised while committing.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintUnique
	ConstraintForeignKey
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintUnique:
		return "unique"
	case ConstraintForeignKey:
		return "foreign_key"
	default:
		return "none"
	}
}

type ConstraintError struct {
	Kind ConstraintKind
	Err  error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ClassifyError maps driver errors onto a ConstraintKind. GORM's translated
// errors are checked first, then raw postgres SQLSTATE and sqlite extended
// codes for errors that bypassed translation.
func ClassifyError(err error) ConstraintKind {
	if err == nil {
		return ConstraintNone
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ConstraintUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ConstraintUnique
		case "23503":
			return ConstraintForeignKey
		}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ConstraintUnique
		// RESTRICT actions on foreign keys surface as trigger violations.
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return ConstraintForeignKey
		}
	}
	return ConstraintNone
}

// IsConstraint reports whether err is a ConstraintError of the given kind.
func IsConstraint(err error, kind ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == kind
}

func wrapCommitError(err error) error {
	if kind := ClassifyError(err); kind != ConstraintNone {
		return &ConstraintError{Kind: kind, Err: err}
	}
	return err
}
