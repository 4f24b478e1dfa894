package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
)

// In-memory fakes for the repository interfaces. Fakes, not mocks: each
// one carries just enough behavior for the flows under test.

type fakeUserRepo struct {
	byID map[string]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]types.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]types.User, error) {
	users := make([]types.User, 0, len(f.byID))
	for _, user := range f.byID {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.byID[user.ID]; ok {
		return types.User{}, store.ErrConflict
	}
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) CompleteProfile(ctx context.Context, user types.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return store.ErrNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetStatus(ctx context.Context, id string, status types.ApprovalStatus) error {
	user, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Status = status
	f.byID[id] = user
	return nil
}

type fakeProjectRepo struct {
	nextID         int
	projects       map[int]types.Project
	setStatusCalls int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int]types.Project)}
}

func (f *fakeProjectRepo) Get(ctx context.Context, id int) (types.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, status types.ApprovalStatus) ([]types.Project, error) {
	projects := make([]types.Project, 0, len(f.projects))
	for _, project := range f.projects {
		if status == "" || project.Status == status {
			projects = append(projects, project)
		}
	}
	// Newest first, matching the showcase ordering.
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (f *fakeProjectRepo) ListByUser(ctx context.Context, userID string) ([]types.Project, error) {
	projects := make([]types.Project, 0)
	for _, project := range f.projects {
		if project.SubmittedBy == userID {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (f *fakeProjectRepo) Create(ctx context.Context, project types.Project) (types.Project, error) {
	f.nextID++
	project.ID = f.nextID
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	}
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) SetStatus(ctx context.Context, id int, status types.ApprovalStatus) error {
	project, ok := f.projects[id]
	if !ok {
		return store.ErrNotFound
	}
	f.setStatusCalls++
	project.Status = status
	f.projects[id] = project
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

type fakeEventRepo struct {
	nextID  int
	events  map[int]types.Event
	summary types.RSVPSummary
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int]types.Event)}
}

func (f *fakeEventRepo) Get(ctx context.Context, id int) (types.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]types.Event, error) {
	events := make([]types.Event, 0, len(f.events))
	for _, event := range f.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, event types.Event) (types.Event, error) {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event types.Event) (types.Event, error) {
	if _, ok := f.events[event.ID]; !ok {
		return types.Event{}, store.ErrNotFound
	}
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) RSVPSummary(ctx context.Context, eventID int) (types.RSVPSummary, error) {
	summary := f.summary
	summary.EventID = eventID
	return summary, nil
}

type fakeRSVPRepo struct {
	nextID int
	rows   map[string]types.RSVP
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{rows: make(map[string]types.RSVP)}
}

func rsvpKey(eventID int, userID string) string {
	return fmt.Sprintf("%d/%s", eventID, userID)
}

func (f *fakeRSVPRepo) GetByEventAndUser(ctx context.Context, eventID int, userID string) (types.RSVP, error) {
	rsvp, ok := f.rows[rsvpKey(eventID, userID)]
	if !ok {
		return types.RSVP{}, store.ErrNotFound
	}
	return rsvp, nil
}

func (f *fakeRSVPRepo) ListByUser(ctx context.Context, userID string) ([]types.RSVP, error) {
	rsvps := make([]types.RSVP, 0)
	for _, rsvp := range f.rows {
		if rsvp.UserID == userID {
			rsvps = append(rsvps, rsvp)
		}
	}
	return rsvps, nil
}

func (f *fakeRSVPRepo) Upsert(ctx context.Context, eventID int, userID string, status types.RSVPStatus) (types.RSVP, error) {
	key := rsvpKey(eventID, userID)
	if rsvp, ok := f.rows[key]; ok {
		rsvp.Status = status
		f.rows[key] = rsvp
		return rsvp, nil
	}
	f.nextID++
	rsvp := types.RSVP{ID: f.nextID, EventID: eventID, UserID: userID, Status: status}
	f.rows[key] = rsvp
	return rsvp, nil
}

type fakeAchievementRepo struct {
	nextID       int
	achievements map[int]types.Achievement
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{achievements: make(map[int]types.Achievement)}
}

func (f *fakeAchievementRepo) Get(ctx context.Context, id int) (types.Achievement, error) {
	achievement, ok := f.achievements[id]
	if !ok {
		return types.Achievement{}, store.ErrNotFound
	}
	return achievement, nil
}

func (f *fakeAchievementRepo) List(ctx context.Context) ([]types.Achievement, error) {
	achievements := make([]types.Achievement, 0, len(f.achievements))
	for _, achievement := range f.achievements {
		achievements = append(achievements, achievement)
	}
	return achievements, nil
}

func (f *fakeAchievementRepo) ListByUser(ctx context.Context, userID string) ([]types.Achievement, error) {
	achievements := make([]types.Achievement, 0)
	for _, achievement := range f.achievements {
		if achievement.UserID == userID {
			achievements = append(achievements, achievement)
		}
	}
	return achievements, nil
}

func (f *fakeAchievementRepo) Create(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	f.nextID++
	achievement.ID = f.nextID
	f.achievements[achievement.ID] = achievement
	return achievement, nil
}

func (f *fakeAchievementRepo) Update(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	if _, ok := f.achievements[achievement.ID]; !ok {
		return types.Achievement{}, store.ErrNotFound
	}
	f.achievements[achievement.ID] = achievement
	return achievement, nil
}

func (f *fakeAchievementRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.achievements[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.achievements, id)
	return nil
}

type fakeAdminRepo struct {
	byID map[string]types.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byID: make(map[string]types.Admin)}
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (types.Admin, error) {
	admin, ok := f.byID[id]
	if !ok {
		return types.Admin{}, store.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAdminRepo) List(ctx context.Context) ([]types.Admin, error) {
	admins := make([]types.Admin, 0, len(f.byID))
	for _, admin := range f.byID {
		admins = append(admins, admin)
	}
	return admins, nil
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	if _, ok := f.byID[admin.ID]; ok {
		return types.Admin{}, store.ErrConflict
	}
	f.byID[admin.ID] = admin
	return admin, nil
}

func (f *fakeAdminRepo) Update(ctx context.Context, admin types.Admin) (types.Admin, error) {
	if _, ok := f.byID[admin.ID]; !ok {
		return types.Admin{}, store.ErrNotFound
	}
	f.byID[admin.ID] = admin
	return admin, nil
}

func (f *fakeAdminRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeProfileRepo struct {
	byUser map[string]types.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: make(map[string]types.Profile)}
}

func (f *fakeProfileRepo) GetByUser(ctx context.Context, userID string) (types.Profile, error) {
	profile, ok := f.byUser[userID]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	f.byUser[profile.UserID] = profile
	return profile, nil
}

type fakePublisher struct {
	channels []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, data)
	return "msg-1", nil
}
