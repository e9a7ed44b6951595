// Package api exposes the job board over HTTP.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/auth"
	"farmwork-hub-go/internal/config"
	"farmwork-hub-go/internal/jobs"
	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/internal/storage"
	"farmwork-hub-go/internal/validation"
)

// API wires the job service and the auth collaborator into HTTP handlers.
type API struct {
	jobs    *jobs.Service
	authSvc auth.TokenService
	cfg     *config.Config
	logger  *zap.SugaredLogger
	limiter *RateLimiter
	metrics *Metrics
}

// New creates the API.
func New(jobSvc *jobs.Service, authSvc auth.TokenService, cfg *config.Config, logger *zap.SugaredLogger) *API {
	return &API{
		jobs:    jobSvc,
		authSvc: authSvc,
		cfg:     cfg,
		logger:  logger,
		limiter: NewRateLimiter(cfg.Server.RateLimitPerMinute),
		metrics: NewMetrics(),
	}
}

// Router builds the HTTP handler with rate limiting and metrics applied.
func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("GET /api/metrics", a.handleMetrics)

	mux.HandleFunc("GET /api/jobs", a.handleListJobs)
	mux.HandleFunc("POST /api/jobs", a.handlePostJob)
	mux.HandleFunc("GET /api/jobs/{id}", a.handleGetJob)
	mux.HandleFunc("GET /api/jobs/{id}/related", a.handleRelatedJobs)
	mux.HandleFunc("POST /api/jobs/{id}/status", a.handleJobStatus)
	mux.HandleFunc("POST /api/jobs/{id}/apply", a.handleApply)
	mux.HandleFunc("GET /api/jobs/{id}/applications", a.handleJobApplications)
	mux.HandleFunc("POST /api/jobs/{id}/ratings", a.handleRateJob)
	mux.HandleFunc("GET /api/applications", a.handleMyApplications)
	mux.HandleFunc("POST /api/applications/{id}/status", a.handleApplicationStatus)
	mux.HandleFunc("GET /api/users/{id}/ratings", a.handleUserRatings)

	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/me", a.handleMe)

	return a.withMetrics(a.withRateLimit(mux))
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (a *API) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Method + " " + r.URL.Path
		a.metrics.Record(route, time.Since(start), rec.status >= 400)
	})
}

func (a *API) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.limiter.Allow(clientIP(r)) {
			a.metrics.RecordRateLimited()
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.metrics.GetSnapshot())
}

// jobListResponse is the pagination envelope for job listings.
type jobListResponse struct {
	Items      []models.Job `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	HasMore    bool         `json:"has_more"`
}

func (a *API) handleListJobs(w http.ResponseWriter, r *http.Request) {
	spec := a.filterSpecFromQuery(r)
	result, err := a.jobs.Query(spec)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	page := spec.Page
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, jobListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Page:       page,
		PageSize:   spec.PageSize,
		HasMore:    page*spec.PageSize < result.TotalCount,
	})
}

func (a *API) filterSpecFromQuery(r *http.Request) models.FilterSpec {
	q := r.URL.Query()
	spec := models.FilterSpec{
		Search:     q.Get("search"),
		Location:   q.Get("location"),
		Category:   q.Get("category"),
		JobType:    q.Get("job_type"),
		SalaryType: q.Get("salary_type"),
		SortBy:     q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("salary_min"), 64); err == nil {
		spec.SalaryMin = &v
	}
	if v, err := strconv.ParseFloat(q.Get("salary_max"), 64); err == nil {
		spec.SalaryMax = &v
	}
	if skills := q.Get("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				spec.Skills = append(spec.Skills, s)
			}
		}
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		spec.Page = v
	}
	spec.PageSize = a.cfg.Jobs.DefaultPageSize
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 {
		if v > a.cfg.Jobs.MaxPageSize {
			v = a.cfg.Jobs.MaxPageSize
		}
		spec.PageSize = v
	}
	return spec
}

// postJobRequest is the body of POST /api/jobs. Activate publishes the job
// immediately instead of leaving it in draft.
type postJobRequest struct {
	validation.JobPostingForm
	Activate bool `json:"activate"`
}

func (a *API) handlePostJob(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireRole(w, r, models.RoleEmployer)
	if !ok {
		return
	}

	var req postJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := a.jobs.Post(user.ID, req.JobPostingForm, req.Activate)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (a *API) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.jobs.Get(r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (a *API) handleRelatedJobs(w http.ResponseWriter, r *http.Request) {
	related, err := a.jobs.Related(r.PathValue("id"), 5)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": related})
}

func (a *API) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireRole(w, r, models.RoleEmployer)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	job, err := a.jobs.Get(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	if job.EmployerID != user.ID {
		writeError(w, http.StatusForbidden, "only the posting employer can change a job's status")
		return
	}

	updated, err := a.jobs.Transition(id, req.Status)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleApply(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireRole(w, r, models.RoleWorker)
	if !ok {
		return
	}

	var req struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := a.jobs.Apply(user.ID, validation.JobApplicationForm{
		JobID:       r.PathValue("id"),
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (a *API) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireRole(w, r, models.RoleEmployer)
	if !ok {
		return
	}

	id := r.PathValue("id")
	job, err := a.jobs.Get(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	if job.EmployerID != user.ID {
		writeError(w, http.StatusForbidden, "only the posting employer can view applications")
		return
	}

	apps, err := a.jobs.ApplicationsForJob(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": apps})
}

func (a *API) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	app, err := a.jobs.Application(id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	switch req.Status {
	case models.ApplicationWithdrawn:
		if app.WorkerID != user.ID {
			writeError(w, http.StatusForbidden, "only the applying worker can withdraw an application")
			return
		}
	case models.ApplicationAccepted, models.ApplicationRejected:
		job, err := a.jobs.Get(app.JobID)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		if job.EmployerID != user.ID {
			writeError(w, http.StatusForbidden, "only the posting employer can decide an application")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid application status")
		return
	}

	updated, err := a.jobs.TransitionApplication(id, req.Status)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleRateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		RateeID string `json:"ratee_id"`
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := a.jobs.Rate(user.ID, validation.RatingForm{
		JobID:   r.PathValue("id"),
		RateeID: req.RateeID,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

func (a *API) handleUserRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := a.jobs.RatingsForUser(r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": ratings})
}

func (a *API) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireRole(w, r, models.RoleWorker)
	if !ok {
		return
	}

	apps, err := a.jobs.ApplicationsForWorker(user.ID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": apps})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := validation.LoginForm{Email: creds.Email, Password: creds.Password}
	if result := validation.ValidateLoginForm(form); !result.IsValid {
		writeValidationErrors(w, result.Errors)
		return
	}

	session, err := a.authSvc.Login(r.Context(), creds)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var data auth.RegistrationData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := validation.RegistrationForm{
		Email:     data.Email,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Phone:     data.Phone,
		Role:      data.Role,
		Location:  data.Location,
	}
	if result := validation.ValidateRegistrationForm(form); !result.IsValid {
		writeValidationErrors(w, result.Errors)
		return
	}

	session, err := a.authSvc.Register(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := a.authSvc.Logout(r.Context(), token); err != nil {
		a.logger.Warnw("logout failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	user, err := a.authSvc.CurrentUser(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
		return nil, false
	}
	return user, true
}

func (a *API) requireRole(w http.ResponseWriter, r *http.Request, role string) (*models.User, bool) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return nil, false
	}
	if user.Role != role && user.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "this action requires the "+role+" role")
		return nil, false
	}
	return user, true
}

// writeServiceError maps service errors onto HTTP statuses.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *jobs.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeValidationErrors(w, vErr.Result.Errors)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, jobs.ErrDuplicatePosting), errors.Is(err, jobs.ErrDuplicateApplication),
		errors.Is(err, jobs.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.logger.Errorw("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationErrors(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validation failed",
		"errors": messages,
	})
}
