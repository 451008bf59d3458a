package adslog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/ads-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoPublisher = errors.New("no NATS publisher configured")
)

// Publisher is the subset of *nats.Conn used by NATSLogger.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Entry is the JSON document published for every log call.
type Entry struct {
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"msg"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// NATSLogger publishes log entries to a NATS subject. Publish failures are
// counted and otherwise ignored.
type NATSLogger struct {
	publisher Publisher
	subject   string
	now       func() time.Time
	conn      *nats.Conn

	mu       sync.Mutex
	failures int
	lastErr  error
}

// NewNATS returns a logger publishing to subject through publisher. An empty
// subject selects the default trace subject.
func NewNATS(publisher Publisher, subject string) (*NATSLogger, error) {
	if publisher == nil {
		return nil, ErrNoPublisher
	}

	if subject == "" {
		subject = constants.DefaultNATSSubject
	}

	return &NATSLogger{
		publisher: publisher,
		subject:   subject,
		now:       time.Now,
	}, nil
}

// ConnectNATS dials a NATS server and returns a logger owning the connection.
func ConnectNATS(url, subject string, opts ...nats.Option) (*NATSLogger, error) {
	opts = append([]nats.Option{nats.Name("ads-client trace")}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	logger, err := NewNATS(conn, subject)
	if err != nil {
		conn.Close()

		return nil, err
	}

	logger.conn = conn

	return logger, nil
}

// Subject returns the subject entries are published on.
func (l *NATSLogger) Subject() string {
	return l.subject
}

// Failures returns the number of failed publishes and the last error.
func (l *NATSLogger) Failures() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.failures, l.lastErr
}

// Close drains the connection opened by ConnectNATS. It is a no-op for
// loggers built with NewNATS.
func (l *NATSLogger) Close() error {
	if l.conn == nil {
		return nil
	}

	err := l.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}

func (l *NATSLogger) Debug(msg string, fields map[string]interface{}) {
	l.publish("debug", msg, fields)
}

func (l *NATSLogger) Info(msg string, fields map[string]interface{}) {
	l.publish("info", msg, fields)
}

func (l *NATSLogger) Warn(msg string, fields map[string]interface{}) {
	l.publish("warn", msg, fields)
}

func (l *NATSLogger) Error(msg string, fields map[string]interface{}) {
	l.publish("error", msg, fields)
}

func (l *NATSLogger) publish(level, msg string, fields map[string]interface{}) {
	data, err := json.Marshal(Entry{
		Time:    l.now().UTC(),
		Level:   level,
		Message: msg,
		Fields:  jsonSafe(fields),
	})
	if err == nil {
		err = l.publisher.Publish(l.subject, data)
	}

	if err != nil {
		l.mu.Lock()
		l.failures++
		l.lastErr = err
		l.mu.Unlock()
	}
}
