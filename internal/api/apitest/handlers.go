package apitest

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func withUser(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, userID)
}

func (s *Server) setSession(w http.ResponseWriter, u models.User) models.Session {
	exp := s.now().Add(24 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    IssueToken(u.ID, exp),
		Path:     "/",
		HttpOnly: true,
		Expires:  exp,
	})
	return models.Session{ID: newID(), ExpiresAt: exp}
}

// SeedUser creates an account directly, bypassing the register endpoint
func (s *Server) SeedUser(email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: newID(), Email: email, CreatedAt: s.now().UTC()}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[creds.Email]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusConflict, "Email already registered")
		return
	}
	u := models.User{ID: newID(), Email: creds.Email, CreatedAt: s.now().UTC()}
	s.accounts[creds.Email] = &account{user: u, password: creds.Password}
	s.mu.Unlock()

	session := s.setSession(w, u)
	writeJSON(w, http.StatusCreated, models.LoginResponse{User: u, Session: session})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	s.mu.Unlock()
	if !ok || acct.password != creds.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	session := s.setSession(w, acct.user)
	writeJSON(w, http.StatusOK, models.LoginResponse{User: acct.user, Session: session})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: constants.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			writeJSON(w, http.StatusOK, models.UserResponse{User: acct.user})
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "User not found")
}

// SeedHabit stores a habit for userID and returns it
func (s *Server) SeedHabit(userID string, in models.HabitCreate) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.insertHabit(userID, in)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *Server) insertHabit(userID string, in models.HabitCreate) *models.Habit {
	now := s.now().UTC()
	h := &models.Habit{
		ID:                newID(),
		UserID:            userID,
		IdentityStatement: in.IdentityStatement,
		FullDescription:   optional(in.FullDescription),
		TwoMinuteVersion:  in.TwoMinuteVersion,
		HabitStackingCue:  optional(in.HabitStackingCue),
		AnchorHabitID:     optional(in.AnchorHabitID),
		Motivation:        optional(in.Motivation),
		Category:          in.Category,
		RecurringSchedule: in.RecurringSchedule,
		Status:            models.HabitStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.habits[h.ID] = h
	return h
}

func (s *Server) ownedHabit(w http.ResponseWriter, r *http.Request) *models.Habit {
	h, ok := s.habits[chi.URLParam(r, "id")]
	if !ok || h.UserID != userFrom(r) {
		writeDetail(w, http.StatusNotFound, "Habit not found")
		return nil
	}
	return h
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r, 20)
	status := q.Get("status")
	category := q.Get("category")
	includeArchived := q.Get("include_archived") == "true"

	s.mu.Lock()
	var out []models.Habit
	for _, id := range sortedKeys(s.habits) {
		h := s.habits[id]
		if h.UserID != userFrom(r) {
			continue
		}
		if status != "" && string(h.Status) != status {
			continue
		}
		if status == "" && !includeArchived && h.IsArchived() {
			continue
		}
		if category != "" && string(h.Category) != category {
			continue
		}
		out = append(out, *h)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, models.HabitListResponse{
		Habits: paginate(out, page, limit),
		Total:  len(out),
		Page:   page,
		Limit:  limit,
	})
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var in models.HabitCreate
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.IdentityStatement) == "" || strings.TrimSpace(in.TwoMinuteVersion) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "identity_statement and two_minute_version are required")
		return
	}
	s.mu.Lock()
	h := s.insertHabit(userFrom(r), in)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.ownedHabit(w, r); h != nil {
		writeJSON(w, http.StatusOK, h)
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var in models.HabitUpdate
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	if in.IdentityStatement != nil {
		h.IdentityStatement = *in.IdentityStatement
	}
	if in.FullDescription != nil {
		h.FullDescription = in.FullDescription
	}
	if in.TwoMinuteVersion != nil {
		h.TwoMinuteVersion = *in.TwoMinuteVersion
	}
	if in.HabitStackingCue != nil {
		h.HabitStackingCue = in.HabitStackingCue
	}
	if in.AnchorHabitID != nil {
		h.AnchorHabitID = in.AnchorHabitID
	}
	if in.Motivation != nil {
		h.Motivation = in.Motivation
	}
	if in.Category != nil {
		h.Category = *in.Category
	}
	if in.RecurringSchedule != nil {
		h.RecurringSchedule = *in.RecurringSchedule
	}
	if in.Status != nil {
		h.Status = *in.Status
	}
	h.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	if !force {
		for _, other := range s.habits {
			if other.AnchorHabitID != nil && *other.AnchorHabitID == h.ID {
				writeDetail(w, http.StatusConflict, "Habit is used as an anchor by other habits")
				return
			}
		}
	}
	for _, other := range s.habits {
		if other.AnchorHabitID != nil && *other.AnchorHabitID == h.ID {
			other.AnchorHabitID = nil
		}
	}
	delete(s.habits, h.ID)
	delete(s.completions, h.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setHabitStatus(status models.HabitStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h := s.ownedHabit(w, r)
		if h == nil {
			return
		}
		h.Status = status
		h.UpdatedAt = s.now().UTC()
		writeJSON(w, http.StatusOK, h)
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.UTC().Date()
	y2, m2, d2 := b.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// recalculate derives the streak from consecutive UTC days of completions
// ending today or yesterday. Caller holds mu.
func (s *Server) recalculate(h *models.Habit) {
	list := s.completions[h.ID]
	h.CurrentStreak = 0
	h.LastCompletedAt = nil
	if len(list) == 0 {
		return
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CompletedAt.After(list[j].CompletedAt) })
	last := list[0].CompletedAt
	h.LastCompletedAt = &last

	day := s.now().UTC()
	if !sameDay(last, day) {
		day = day.AddDate(0, 0, -1)
		if !sameDay(last, day) {
			return
		}
	}
	for _, c := range list {
		if sameDay(c.CompletedAt, day) {
			h.CurrentStreak++
			day = day.AddDate(0, 0, -1)
		}
	}
}

// SeedCompletion records a completion at the given time
func (s *Server) SeedCompletion(habitID string, at time.Time, t models.CompletionType) models.HabitCompletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.habits[habitID]
	c := models.HabitCompletion{
		ID:             newID(),
		HabitID:        habitID,
		UserID:         h.UserID,
		CompletedAt:    at.UTC(),
		CompletionType: t,
		CreatedAt:      s.now().UTC(),
	}
	s.completions[habitID] = append(s.completions[habitID], c)
	s.recalculate(h)
	return c
}

func (s *Server) completeHabit(w http.ResponseWriter, r *http.Request) {
	var in models.CompleteHabitRequest
	if !decode(w, r, &in) {
		return
	}
	if in.CompletionType != models.CompletionFull && in.CompletionType != models.CompletionTwoMinute {
		writeDetail(w, http.StatusUnprocessableEntity, "completion_type must be full or two_minute")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	now := s.now().UTC()
	for _, c := range s.completions[h.ID] {
		if sameDay(c.CompletedAt, now) {
			writeDetail(w, http.StatusConflict, "Habit already completed today")
			return
		}
	}
	c := models.HabitCompletion{
		ID:             newID(),
		HabitID:        h.ID,
		UserID:         h.UserID,
		CompletedAt:    now,
		CompletionType: in.CompletionType,
		CreatedAt:      now,
	}
	s.completions[h.ID] = append(s.completions[h.ID], c)
	s.recalculate(h)
	writeJSON(w, http.StatusCreated, models.CompleteHabitResponse{CurrentStreak: h.CurrentStreak, Completion: c})
}

func (s *Server) streak(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	writeJSON(w, http.StatusOK, models.StreakInfo{
		HabitID:           h.ID,
		CurrentStreak:     h.CurrentStreak,
		LastCompletedAt:   h.LastCompletedAt,
		ConsecutiveMisses: h.ConsecutiveMisses,
	})
}

func (s *Server) listCompletions(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	out := []models.HabitCompletion{}
	for _, c := range s.completions[h.ID] {
		day := c.CompletedAt.UTC().Format(constants.DateFormat)
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	writeJSON(w, http.StatusOK, models.CompletionHistoryResponse{Completions: out, Total: len(out)})
}

func (s *Server) undoCompletion(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ownedHabit(w, r)
	if h == nil {
		return
	}
	list := s.completions[h.ID]
	for i, c := range list {
		if c.ID == cid {
			s.completions[h.ID] = append(list[:i:i], list[i+1:]...)
			s.recalculate(h)
			writeJSON(w, http.StatusOK, models.UndoCompletionResponse{RecalculatedStreak: h.CurrentStreak})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Completion not found")
}

// SeedTask stores a task for userID and returns it
func (s *Server) SeedTask(userID string, in models.TaskCreate) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.insertTask(userID, in)
}

func (s *Server) insertTask(userID string, in models.TaskCreate) *models.Task {
	now := s.now().UTC()
	status := in.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	t := &models.Task{
		ID:          newID(),
		UserID:      userID,
		Title:       in.Title,
		Description: optional(in.Description),
		Status:      status,
		Priority:    in.Priority,
		Tags:        tags,
		DueDate:     in.DueDate,
		Completed:   status == models.TaskStatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t
}

func (s *Server) ownedTask(w http.ResponseWriter, r *http.Request) *models.Task {
	t, ok := s.tasks[chi.URLParam(r, "id")]
	if !ok || t.UserID != userFrom(r) {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return nil
	}
	return t
}

var priorityRank = map[models.TaskPriority]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
	models.PriorityNone:   0,
}

func taskLess(sortBy models.TaskSort) func(a, b models.Task) bool {
	due := func(t models.Task) time.Time {
		if t.DueDate == nil {
			return time.Time{}
		}
		return *t.DueDate
	}
	switch sortBy {
	case models.SortCreatedAsc:
		return func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case models.SortDueDateAsc:
		return func(a, b models.Task) bool { return due(a).Before(due(b)) }
	case models.SortDueDateDesc:
		return func(a, b models.Task) bool { return due(a).After(due(b)) }
	case models.SortPriorityAsc:
		return func(a, b models.Task) bool { return priorityRank[a.Priority] < priorityRank[b.Priority] }
	case models.SortPriorityDesc:
		return func(a, b models.Task) bool { return priorityRank[a.Priority] > priorityRank[b.Priority] }
	}
	return func(a, b models.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
}

func hasAllTags(t *models.Task, want []string) bool {
	for _, w := range want {
		found := false
		for _, tag := range t.Tags {
			if tag == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r, constants.DefaultTaskPageLimit)
	status := q.Get("status")
	priority := q.Get("priority")
	search := strings.ToLower(q.Get("search"))
	tags := splitTags(q.Get("tags"))

	s.mu.Lock()
	var out []models.Task
	for _, id := range sortedKeys(s.tasks) {
		t := s.tasks[id]
		if t.UserID != userFrom(r) {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		if priority != "" && string(t.Priority) != priority {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if !hasAllTags(t, tags) {
			continue
		}
		out = append(out, *t)
	}
	s.mu.Unlock()

	less := taskLess(models.TaskSort(q.Get("sort")))
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	writeJSON(w, http.StatusOK, models.TaskListResponse{
		Tasks: paginate(out, page, limit),
		Total: len(out),
		Page:  page,
		Limit: limit,
	})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskCreate
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	s.mu.Lock()
	t := s.insertTask(userFrom(r), in)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.ownedTask(w, r); t != nil {
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskUpdate
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ownedTask(w, r)
	if t == nil {
		return
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
		t.Completed = t.Status == models.TaskStatusCompleted
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	t.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ownedTask(w, r)
	if t == nil {
		return
	}
	t.Completed = !t.Completed
	if t.Completed {
		t.Status = models.TaskStatusCompleted
	} else {
		t.Status = models.TaskStatusPending
	}
	t.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ownedTask(w, r)
	if t == nil {
		return
	}
	delete(s.tasks, t.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := map[string]bool{}
	for _, t := range s.tasks {
		if t.UserID != userFrom(r) {
			continue
		}
		for _, tag := range t.Tags {
			seen[tag] = true
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sortedKeys(seen))
}
