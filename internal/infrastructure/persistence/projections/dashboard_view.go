// Package projections implements denormalized read models kept current by
// store events. Each portal dashboard reads from a view instead of querying
// the store, so list rendering never contends with writers.
package projections

import (
	"sort"
	"sync"
	"time"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/store"
)

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD VIEW - Denormalized Read Model
// ══════════════════════════════════════════════════════════════════════════════

// DashboardView caches one ordered list per entity kind. It is primed once
// from a store snapshot and then maintained incrementally from events.
//
// Ordering: reference kinds (users, students, companies, opportunities) are
// kept ascending by id; activity kinds (reports, certificates, NOC requests,
// tasks, statuses, applications, logs) are kept descending by id, newest
// first, which is how the dashboards present them.
//
// Apply is safe to call from a store event handler: it never calls back into
// the store.
type DashboardView struct {
	mu sync.RWMutex

	users         kindCache[entity.User]
	students      kindCache[entity.Student]
	reports       kindCache[entity.WeeklyReport]
	certificates  kindCache[entity.Certificate]
	nocRequests   kindCache[entity.NOCRequest]
	companies     kindCache[entity.Company]
	opportunities kindCache[entity.Opportunity]
	tasks         kindCache[entity.AssignedTask]
	taskStatuses  kindCache[entity.TaskStatus]
	applications  kindCache[entity.Application]
	logs          kindCache[entity.SystemLog]

	// lastEvent is the OccurredAt of the most recently applied event.
	lastEvent time.Time

	// version increments on every applied event for cache invalidation.
	version int64
}

// NewDashboardView creates an empty view with the per-kind sort orders wired.
func NewDashboardView() *DashboardView {
	return &DashboardView{
		users:         kindCache[entity.User]{id: func(u entity.User) int { return u.ID }},
		students:      kindCache[entity.Student]{id: func(s entity.Student) int { return s.ID }},
		reports:       kindCache[entity.WeeklyReport]{id: func(r entity.WeeklyReport) int { return r.ID }, descending: true},
		certificates:  kindCache[entity.Certificate]{id: func(c entity.Certificate) int { return c.ID }, descending: true},
		nocRequests:   kindCache[entity.NOCRequest]{id: func(n entity.NOCRequest) int { return n.ID }, descending: true},
		companies:     kindCache[entity.Company]{id: func(c entity.Company) int { return c.ID }},
		opportunities: kindCache[entity.Opportunity]{id: func(o entity.Opportunity) int { return o.ID }},
		tasks:         kindCache[entity.AssignedTask]{id: func(t entity.AssignedTask) int { return t.ID }, descending: true},
		taskStatuses:  kindCache[entity.TaskStatus]{id: func(ts entity.TaskStatus) int { return ts.ID }, descending: true},
		applications:  kindCache[entity.Application]{id: func(a entity.Application) int { return a.ID }, descending: true},
		logs:          kindCache[entity.SystemLog]{id: func(l entity.SystemLog) int { return l.ID }, descending: true},
	}
}

// Prime replaces the whole view with the contents of a store snapshot.
// Soft-deleted tasks are skipped so the view matches the store's default
// list queries.
func (v *DashboardView) Prime(st store.State) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.users.replace(st.Users)
	v.students.replace(st.Students)
	v.reports.replace(st.Reports)
	v.certificates.replace(st.Certificates)
	v.nocRequests.replace(st.NOCRequests)
	v.companies.replace(st.Companies)
	v.opportunities.replace(st.Opportunities)

	live := make([]entity.AssignedTask, 0, len(st.Tasks))
	for _, t := range st.Tasks {
		if !t.IsDeleted {
			live = append(live, t)
		}
	}
	v.tasks.replace(live)

	v.taskStatuses.replace(st.TaskStatuses)
	v.applications.replace(st.Applications)
	v.logs.replace(st.Logs)

	v.version++
}

// Apply folds one store event into the view. Created and updated events
// upsert the record into its kind's list; deleted events remove it by id.
// Unknown kinds and mismatched record payloads are ignored.
func (v *DashboardView) Apply(e shared.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e.Kind {
	case shared.KindUser:
		applyTo(&v.users, e)
	case shared.KindStudent:
		applyTo(&v.students, e)
	case shared.KindWeeklyReport:
		applyTo(&v.reports, e)
	case shared.KindCertificate:
		applyTo(&v.certificates, e)
	case shared.KindNOCRequest:
		applyTo(&v.nocRequests, e)
	case shared.KindCompany:
		applyTo(&v.companies, e)
	case shared.KindOpportunity:
		applyTo(&v.opportunities, e)
	case shared.KindAssignedTask:
		applyTo(&v.tasks, e)
	case shared.KindTaskStatus:
		applyTo(&v.taskStatuses, e)
	case shared.KindApplication:
		applyTo(&v.applications, e)
	case shared.KindSystemLog:
		applyTo(&v.logs, e)
	default:
		return
	}

	v.lastEvent = e.OccurredAt
	v.version++
}

// ─────────────────────────────────────────────────────────────────────────────
// Query operations
// ─────────────────────────────────────────────────────────────────────────────

// Users returns the cached user list, ascending by id.
func (v *DashboardView) Users() []entity.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.users.copyAll()
}

// Students returns the cached student list, ascending by id.
func (v *DashboardView) Students() []entity.Student {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.students.copyAll()
}

// Reports returns the cached weekly reports, newest first.
func (v *DashboardView) Reports() []entity.WeeklyReport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.reports.copyAll()
}

// Certificates returns the cached certificates, newest first.
func (v *DashboardView) Certificates() []entity.Certificate {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.certificates.copyAll()
}

// NOCRequests returns the cached NOC requests, newest first.
func (v *DashboardView) NOCRequests() []entity.NOCRequest {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.nocRequests.copyAll()
}

// Companies returns the cached company list, ascending by id.
func (v *DashboardView) Companies() []entity.Company {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.companies.copyAll()
}

// Opportunities returns the cached opportunities, ascending by id.
func (v *DashboardView) Opportunities() []entity.Opportunity {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opportunities.copyAll()
}

// Tasks returns the cached live tasks, newest first.
func (v *DashboardView) Tasks() []entity.AssignedTask {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tasks.copyAll()
}

// TaskStatuses returns the cached task progress rows, newest first.
func (v *DashboardView) TaskStatuses() []entity.TaskStatus {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.taskStatuses.copyAll()
}

// Applications returns the cached applications, newest first.
func (v *DashboardView) Applications() []entity.Application {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.applications.copyAll()
}

// SystemLogs returns the cached audit entries, newest first.
func (v *DashboardView) SystemLogs() []entity.SystemLog {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.logs.copyAll()
}

// Version returns the current version number.
func (v *DashboardView) Version() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// LastEventAt returns the timestamp of the most recently applied event.
func (v *DashboardView) LastEventAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastEvent
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-kind cache
// ─────────────────────────────────────────────────────────────────────────────

// kindCache is one kind's ordered list plus its sort direction.
type kindCache[T any] struct {
	items      []T
	id         func(T) int
	descending bool
}

func (c *kindCache[T]) replace(items []T) {
	c.items = append([]T(nil), items...)
	c.resort()
}

func (c *kindCache[T]) upsert(item T) {
	id := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
	c.resort()
}

func (c *kindCache[T]) remove(id int) {
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *kindCache[T]) resort() {
	sort.SliceStable(c.items, func(i, j int) bool {
		if c.descending {
			return c.id(c.items[i]) > c.id(c.items[j])
		}
		return c.id(c.items[i]) < c.id(c.items[j])
	})
}

func (c *kindCache[T]) copyAll() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// applyTo folds one event into a cache. The caller holds the view lock.
func applyTo[T any](c *kindCache[T], e shared.Event) {
	record, ok := e.Record.(T)
	if !ok {
		return
	}
	switch e.Op {
	case shared.OpDeleted:
		c.remove(c.id(record))
	default:
		c.upsert(record)
	}
}
