package postgres

const eventColumns = `
  id, initiator_id, category_id, title, annotation, description,
  lat, lon, paid, participant_limit, request_moderation,
  state, event_date, created_on, published_on`

const insertEventSQL = `
INSERT INTO events (
  id, initiator_id, category_id, title, annotation, description,
  lat, lon, paid, participant_limit, request_moderation,
  state, event_date, created_on, published_on
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`

const getEventSQL = `
SELECT` + eventColumns + `
FROM events WHERE id = $1
`

const getEventForUpdateSQL = getEventSQL + `FOR UPDATE
`

const updateEventSQL = `
UPDATE events SET
  category_id=$2, title=$3, annotation=$4, description=$5,
  lat=$6, lon=$7, paid=$8, participant_limit=$9, request_moderation=$10,
  state=$11, event_date=$12, published_on=$13
WHERE id=$1
`

const listEventsByInitiatorSQL = `
SELECT` + eventColumns + `
FROM events
WHERE initiator_id = $1
ORDER BY created_on DESC, id
OFFSET $2 LIMIT $3
`

const requestColumns = ` id, requester_id, event_id, status, created`

const insertRequestSQL = `
INSERT INTO requests (id, requester_id, event_id, status, created)
VALUES ($1,$2,$3,$4,$5)
`

const getRequestSQL = `
SELECT` + requestColumns + `
FROM requests WHERE id = $1
`

const updateRequestStatusSQL = `
UPDATE requests SET status=$2 WHERE id=$1
`

const countConfirmedSQL = `
SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = 'CONFIRMED'
`

const confirmedCountsSQL = `
SELECT event_id, COUNT(*)
FROM requests
WHERE event_id = ANY($1) AND status = 'CONFIRMED'
GROUP BY event_id
`

const insertOutboxSQL = `
INSERT INTO event_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`
