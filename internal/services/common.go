package services

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "marketplace/internal/config"
	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
)

// sharedDB falls back to the process-wide connection when a service was built without one.
func sharedDB(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

// notFound turns sql.ErrNoRows into a NotFoundError for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}

// conflictOnDuplicate turns a unique index violation into a ConflictError with msg.
func conflictOnDuplicate(err error, msg string) error {
	if intdb.IsDuplicateKey(err) {
		return domain.ConflictError{Msg: msg, Err: err}
	}
	return err
}

func requireID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

func emptyPage(resource string) error {
	return domain.NotFoundError{Msg: resource + " are not found"}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
