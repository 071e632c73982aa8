// Package announce publishes built endpoint descriptors over NATS so
// downstream consumers (query translation) can reload their predicate
// indices without polling the output directory.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/genmap/catalog"
)

// SubjectPrefix is the subject space for catalog announcements; the
// dataset id is appended.
const SubjectPrefix = "genmap.catalog."

// Announcement is the message published after a successful build.
type Announcement struct {
	RunID       string             `json:"run_id"`
	Dataset     string             `json:"dataset"`
	PublishedAt time.Time          `json:"published_at"`
	Descriptor  catalog.Descriptor `json:"descriptor"`
}

// Publisher publishes announcements to a NATS server. A nil Publisher
// is valid and publishes nothing, so callers need no conditionals.
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect establishes a NATS connection for publishing.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("genmap"),
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	return &Publisher{nc: nc, logger: logger}, nil
}

// PublishDescriptor publishes the descriptor for the dataset.
func (p *Publisher) PublishDescriptor(ctx context.Context, runID, dataset string, desc catalog.Descriptor) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := Announcement{
		RunID:       runID,
		Dataset:     dataset,
		PublishedAt: time.Now().UTC(),
		Descriptor:  desc,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	subject := SubjectPrefix + dataset
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	p.logger.Debug("published catalog announcement",
		slog.String("subject", subject),
		slog.String("run_id", runID),
		slog.Int("bytes", len(data)))
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("drain NATS connection", slog.String("error", err.Error()))
	}
}
