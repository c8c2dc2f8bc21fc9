package core

import (
	"database/sql"
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// https://stackoverflow.com/a/12518877
func FileExists(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, err
	}
}

func Pointer[T any](t T) *T {
	return &t
}

func SQLNullToNull[T any](t sql.Null[T]) *T {
	if t.Valid {
		return &t.V
	}
	return nil
}

func NullToSQLNull[T any](t *T) sql.Null[T] {
	if t == nil {
		return sql.Null[T]{
			Valid: false,
		}
	}
	return sql.Null[T]{
		V:     *t,
		Valid: true,
	}
}

// BlankToNull treats an empty or whitespace only string as null.
func BlankToNull(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// UnixMilli converts a stored timestamp back to UTC.
func UnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func Must2[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}
