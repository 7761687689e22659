package costcenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestUniqueViolationDetection(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation})
	if !isUniqueViolation(dup) {
		t.Fatalf("wrapped 23505 should be detected")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatalf("plain errors must not match")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("other constraint codes must not match")
	}
}
