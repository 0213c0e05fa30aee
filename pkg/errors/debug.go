package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain into the values attached to failure log entries.
type ErrorDump struct {
	TopMessage     string
	Code           Code
	Chain          []string
	UpstreamStatus int

	PGCode       string
	PGConstraint string
	PGDetail     string
}

// upstreamStatusError is implemented by errors carrying the HTTP status of a remote API.
type upstreamStatusError interface {
	UpstreamStatus() int
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if us, ok := e.(upstreamStatusError); ok && d.UpstreamStatus == 0 {
			d.UpstreamStatus = us.UpstreamStatus()
		}
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode, d.PGConstraint, d.PGDetail = pgxErr.Code, pgxErr.ConstraintName, pgxErr.Detail
	case errors.As(err, &pqErr):
		d.PGCode, d.PGConstraint, d.PGDetail = string(pqErr.Code), pqErr.Constraint, pqErr.Detail
	}
	return d
}

// Fields returns the populated dump values under their log field names.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if len(d.Chain) > 0 {
		fields["error_chain"] = d.Chain
	}
	if d.UpstreamStatus != 0 {
		fields["upstream_status"] = d.UpstreamStatus
	}
	if d.PGCode != "" {
		fields["pg_code"] = d.PGCode
		fields["pg_constraint"] = d.PGConstraint
		fields["pg_detail"] = d.PGDetail
	}
	return fields
}
