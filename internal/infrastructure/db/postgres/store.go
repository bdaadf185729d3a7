// Package postgres holds the lib/pq-backed persistence for every
// aggregate. Each store owns its SQL; transactional variants wrap a
// *sql.Tx behind the application-layer Tx interfaces.
package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/domain"
)

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// uniqueViolation reports a postgres 23505 error.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		e           domain.Event
		state       string
		publishedOn sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.InitiatorID, &e.CategoryID, &e.Title, &e.Annotation, &e.Description,
		&e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit, &e.RequestModeration,
		&state, &e.EventDate, &e.CreatedOn, &publishedOn,
	)
	if err != nil {
		return nil, err
	}
	e.State = domain.EventState(state)
	if publishedOn.Valid {
		t := publishedOn.Time.UTC()
		e.PublishedOn = &t
	}
	e.EventDate = e.EventDate.UTC()
	e.CreatedOn = e.CreatedOn.UTC()
	return &e, nil
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var (
		r      domain.Request
		status string
	)
	if err := row.Scan(&r.ID, &r.RequesterID, &r.EventID, &status, &r.Created); err != nil {
		return nil, err
	}
	r.Status = domain.RequestStatus(status)
	r.Created = r.Created.UTC()
	return &r, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
