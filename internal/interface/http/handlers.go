package http

import (
	"net/http"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Uptime:  s.Uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "intern-portal-hub",
		"version": s.deps.Version,
	})
}

// statsResponse aggregates store, bus, and projection health for /stats.
type statsResponse struct {
	Counts        map[string]int `json:"counts"`
	SaveFailures  int64          `json:"save_failures"`
	LastSavedAt   *time.Time     `json:"last_saved_at,omitempty"`
	EventsTotal   int64          `json:"events_published"`
	Deliveries    int64          `json:"event_deliveries"`
	HandlerPanics int64          `json:"handler_panics"`
	ViewVersion   int64          `json:"view_version"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Store.Stats()

	resp := statsResponse{
		Counts:       make(map[string]int, len(st.Counts)),
		SaveFailures: st.SaveFailures,
	}
	for kind, n := range st.Counts {
		resp.Counts[string(kind)] = n
	}
	if !st.LastSavedAt.IsZero() {
		t := st.LastSavedAt
		resp.LastSavedAt = &t
	}

	if s.deps.BusMetrics != nil {
		bm := s.deps.BusMetrics()
		resp.EventsTotal = bm.TotalPublished
		resp.Deliveries = bm.TotalDeliveries
		resp.HandlerPanics = bm.HandlerPanics
	}
	if s.deps.View != nil {
		resp.ViewVersion = s.deps.View.Version()
	}

	writeJSON(w, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD LIST HANDLERS
//
// Unfiltered lists come from the projection view in its display order.
// Foreign-key filters (?student_id=, ?teacher_id=, ...) go through the
// store's scoped queries.
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.deps.View.Users()
	// Never expose password hashes over the read API.
	for i := range users {
		users[i].PasswordHash = ""
	}
	writeJSONList(w, users, len(users))
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if teacherID := getQueryParamInt(r, "teacher_id", 0); teacherID > 0 {
		students, err := s.deps.Store.ListStudentsByTeacher(r.Context(), teacherID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, students, len(students))
		return
	}
	students := s.deps.View.Students()
	writeJSONList(w, students, len(students))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if studentID := getQueryParamInt(r, "student_id", 0); studentID > 0 {
		reports, err := s.deps.Store.ListReportsByStudent(ctx, studentID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, reports, len(reports))
		return
	}
	if teacherID := getQueryParamInt(r, "teacher_id", 0); teacherID > 0 {
		reports, err := s.deps.Store.ListReportsByTeacher(ctx, teacherID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, reports, len(reports))
		return
	}
	reports := s.deps.View.Reports()
	writeJSONList(w, reports, len(reports))
}

func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	if studentID := getQueryParamInt(r, "student_id", 0); studentID > 0 {
		certs, err := s.deps.Store.ListCertificatesByStudent(r.Context(), studentID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, certs, len(certs))
		return
	}
	certs := s.deps.View.Certificates()
	writeJSONList(w, certs, len(certs))
}

func (s *Server) handleListNOCRequests(w http.ResponseWriter, r *http.Request) {
	if studentID := getQueryParamInt(r, "student_id", 0); studentID > 0 {
		nocs, err := s.deps.Store.ListNOCRequestsByStudent(r.Context(), studentID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, nocs, len(nocs))
		return
	}
	nocs := s.deps.View.NOCRequests()
	writeJSONList(w, nocs, len(nocs))
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies := s.deps.View.Companies()
	writeJSONList(w, companies, len(companies))
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	if companyID := getQueryParamInt(r, "company_id", 0); companyID > 0 {
		opps, err := s.deps.Store.ListOpportunitiesByCompany(r.Context(), companyID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, opps, len(opps))
		return
	}
	opps := s.deps.View.Opportunities()
	writeJSONList(w, opps, len(opps))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if teacherID := getQueryParamInt(r, "teacher_id", 0); teacherID > 0 {
		tasks, err := s.deps.Store.ListTasksByTeacher(ctx, teacherID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, tasks, len(tasks))
		return
	}
	if studentID := getQueryParamInt(r, "student_id", 0); studentID > 0 {
		tasks, err := s.deps.Store.ListTasksByStudent(ctx, studentID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, tasks, len(tasks))
		return
	}
	tasks := s.deps.View.Tasks()
	writeJSONList(w, tasks, len(tasks))
}

func (s *Server) handleListTaskStatuses(w http.ResponseWriter, r *http.Request) {
	if taskID := getQueryParamInt(r, "task_id", 0); taskID > 0 {
		statuses, err := s.deps.Store.ListTaskStatusesByTask(r.Context(), taskID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, statuses, len(statuses))
		return
	}
	statuses := s.deps.View.TaskStatuses()
	writeJSONList(w, statuses, len(statuses))
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if studentID := getQueryParamInt(r, "student_id", 0); studentID > 0 {
		apps, err := s.deps.Store.ListApplicationsByStudent(ctx, studentID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, apps, len(apps))
		return
	}
	if opportunityID := getQueryParamInt(r, "opportunity_id", 0); opportunityID > 0 {
		apps, err := s.deps.Store.ListApplicationsByOpportunity(ctx, opportunityID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, apps, len(apps))
		return
	}
	apps := s.deps.View.Applications()
	writeJSONList(w, apps, len(apps))
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if userID := getQueryParamInt(r, "user_id", 0); userID > 0 {
		logs, err := s.deps.Store.ListSystemLogsByUser(r.Context(), userID)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
		writeJSONList(w, logs, len(logs))
		return
	}
	logs := s.deps.View.SystemLogs()
	writeJSONList(w, logs, len(logs))
}
