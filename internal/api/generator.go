package api

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/charliek/syslogdash/internal/domain"
)

type sample struct {
	facility domain.Facility
	severity domain.Severity
	hostname string
	appName  string
	procID   string
	msgID    string
	message  string
}

var samples = []sample{
	{16, domain.SeverityInfo, "testhost1", "myapp", "1234", "MSG001", "This is a test info message"},
	{0, domain.SeverityError, "testhost2", "kernel", "0", "ERR001", "This is a test error message"},
	{23, domain.SeverityWarning, "testhost3", "webapp", "5678", "WARN001", "This is a test warning message"},
	{1, domain.SeverityCritical, "testhost4", "daemon", "9999", "CRIT001", "This is a test critical message"},
	{8, domain.SeverityDebug, "testhost5", "logger", "1111", "DEBUG001", "This is a test debug message"},
	{3, domain.SeverityNotice, "web-01", "sshd", "2201", "", `Accepted publickey for "deploy" from 10.0.4.7`},
	{4, domain.SeverityWarning, "web-02", "sudo", "3310", "", "pam_unix(sudo:auth): authentication failure"},
	{9, domain.SeverityInfo, "db-01", "CRON", "4120", "", "(root) CMD (run-parts /etc/cron.hourly)"},
}

var sourceIPs = []string{"10.0.0.11", "10.0.0.12", "10.0.0.13", "192.168.1.20", "192.168.1.21"}

// Generator publishes synthetic syslog entries to a store at a fixed rate
type Generator struct {
	store   *Store
	limiter *rate.Limiter
	rng     *rand.Rand
	seq     int
}

// NewGenerator creates a generator emitting perSecond entries per second
func NewGenerator(store *Store, perSecond float64) *Generator {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Generator{
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1)),
	}
}

// Seed publishes n entries immediately, oldest first
func (g *Generator) Seed(n int) {
	now := time.Now().UTC()
	for i := n; i > 0; i-- {
		g.store.Publish(g.next(now.Add(-time.Duration(i) * time.Second)))
	}
}

// Run publishes entries until ctx is cancelled
func (g *Generator) Run(ctx context.Context) error {
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		g.store.Publish(g.next(time.Now().UTC()))
	}
}

func (g *Generator) next(ts time.Time) domain.LogEntry {
	g.seq++
	s := samples[g.rng.IntN(len(samples))]
	msg := fmt.Sprintf("%s #%d", s.message, g.seq)
	priority := int(s.facility)*8 + int(s.severity)
	raw := fmt.Sprintf("<%d>%s %s %s[%s]: %s",
		priority, ts.Local().Format(time.Stamp), s.hostname, s.appName, s.procID, msg)

	return domain.LogEntry{
		Timestamp:  ts,
		Facility:   s.facility,
		Severity:   s.severity,
		Hostname:   s.hostname,
		AppName:    s.appName,
		ProcID:     s.procID,
		MsgID:      s.msgID,
		SourceIP:   sourceIPs[g.rng.IntN(len(sourceIPs))],
		Message:    msg,
		RawMessage: raw,
	}
}
