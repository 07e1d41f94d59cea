// Package export hands playlist export jobs to the message queue. The
// export worker that consumes them lives outside this module; nothing is
// awaited here.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubject is the queue subject export jobs are published on.
const DefaultSubject = "export.playlist"

// Conn is the slice of a NATS connection the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher serializes export jobs onto the queue, fire-and-forget.
type Publisher struct {
	conn    Conn
	subject string
	log     zerolog.Logger
}

type exportJob struct {
	PlaylistID  string `json:"playlistId"`
	TargetEmail string `json:"targetEmail"`
}

// Connect dials the NATS server and returns a publisher on DefaultSubject.
func Connect(url string, logger zerolog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}
	return New(conn, logger), nil
}

// New builds a publisher on an existing connection.
func New(conn Conn, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: DefaultSubject,
		log:     logger.With().Str("component", "export").Logger(),
	}
}

// ExportPlaylist queues an export of the playlist to the target email.
// The caller is responsible for the owner-only authorization check.
func (p *Publisher) ExportPlaylist(playlistID, targetEmail string) error {
	data, err := json.Marshal(exportJob{PlaylistID: playlistID, TargetEmail: targetEmail})
	if err != nil {
		return fmt.Errorf("failed to encode export job: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish export job: %w", err)
	}

	p.log.Debug().Str("playlist_id", playlistID).Msg("export job queued")
	return nil
}

// Close drains the underlying connection when the publisher owns one.
func (p *Publisher) Close() {
	if conn, ok := p.conn.(*nats.Conn); ok {
		conn.Close()
	}
}
