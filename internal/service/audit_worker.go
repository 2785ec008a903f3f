package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/domain"
	"github.com/pdihub/pdihub/internal/metrics"
	"github.com/pdihub/pdihub/internal/models"
)

// defaultAuditLookupTimeout bounds the display-name lookup per audit entry.
const defaultAuditLookupTimeout = 5 * time.Second

// AuditJob represents a single audit entry to be recorded.
type AuditJob struct {
	Action     string
	EntityType string
	EntityID   string
	Actor      *models.Actor
	Detail     map[string]any
	IP         string
	UserAgent  string
}

// AuditEnqueuer enqueues audit jobs.
type AuditEnqueuer interface {
	Enqueue(job *AuditJob)
}

// NameResolver looks up a user's display name for audit entries.
type NameResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuditWorker buffers audit entries and writes them via a single worker
// goroutine. Recording is best-effort: a full queue or a failing store never
// surfaces to the business operation that produced the entry.
type AuditWorker struct {
	auditor domain.Auditor
	names   NameResolver
	log     *logrus.Logger
	jobs    chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
// names may be nil; entries then carry no display name.
func NewAuditWorker(auditor domain.Auditor, names NameResolver, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &AuditWorker{
		auditor: auditor,
		names:   names,
		log:     log,
		jobs:    make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("action", job.Action).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains
// remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()

			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	entry := models.AuditEntry{
		Action:     job.Action,
		EntityType: job.EntityType,
		EntityID:   job.EntityID,
		ActorID:    models.AnonymousActorID,
		ActorEmail: models.AnonymousActorEmail,
		Detail:     job.Detail,
		IP:         job.IP,
		UserAgent:  job.UserAgent,
	}

	if entry.IP == "" {
		entry.IP = "unknown"
	}

	if entry.UserAgent == "" {
		entry.UserAgent = "unknown"
	}

	if job.Actor != nil {
		entry.ActorID = job.Actor.ID
		entry.ActorEmail = models.NormalizeEmail(job.Actor.Email)
		entry.ActorName = w.resolveName(job.Actor.Email)
	}

	if err := w.auditor.RecordAudit(context.Background(), entry); err != nil {
		w.log.WithError(err).Warn("audit record failed")
	}
}

// resolveName fetches the actor's display name. Best-effort; an unresolvable
// name never blocks the entry.
func (w *AuditWorker) resolveName(email string) string {
	if w.names == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultAuditLookupTimeout)
	defer cancel()

	u, err := w.names.GetUserByEmail(ctx, email)
	if err != nil {
		return ""
	}

	return u.Name
}
