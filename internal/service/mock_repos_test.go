package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"project-hub/internal/model"
	"project-hub/internal/repository"
	pkgerrors "project-hub/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) nextID() string {
	m.seq++
	return fmt.Sprintf("user-%03d", m.seq)
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = m.nextID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		if err := m.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByEmails(_ context.Context, emails []string) ([]model.User, error) {
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}
	var result []model.User
	for _, u := range m.users {
		if want[u.Email] {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
	members  map[string]map[string]bool // project id → user id set
	users    *mockUserRepo
	tasks    *mockTaskRepo
	seq      int
	failList error
}

func newMockProjectRepo(users *mockUserRepo, tasks *mockTaskRepo) *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[string]*model.Project),
		members:  make(map[string]map[string]bool),
		users:    users,
		tasks:    tasks,
	}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project, memberIDs []string) error {
	m.seq++
	if project.ID == "" {
		project.ID = fmt.Sprintf("project-%03d", m.seq)
	}
	now := time.Now().Add(time.Duration(m.seq) * time.Second)
	project.CreatedAt, project.UpdatedAt = now, now
	m.projects[project.ID] = project
	m.members[project.ID] = make(map[string]bool)
	for _, id := range memberIDs {
		m.members[project.ID][id] = true
	}
	return nil
}

// hydrate 按成员表与任务表填充关联，模拟 Preload
func (m *mockProjectRepo) hydrate(p *model.Project) model.Project {
	out := *p
	out.Users = nil
	ids := make([]string, 0, len(m.members[p.ID]))
	for id := range m.members[p.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if u, ok := m.users.users[id]; ok {
			out.Users = append(out.Users, *u)
		} else {
			out.Users = append(out.Users, model.User{ID: id})
		}
	}
	out.Tasks = nil
	if m.tasks != nil {
		for _, t := range m.tasks.tasks {
			if t.ProjectID == p.ID {
				out.Tasks = append(out.Tasks, *t)
			}
		}
	}
	return out
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m.hydrate(p)
	return &out, nil
}

func (m *mockProjectRepo) List(_ context.Context, memberID string) ([]model.Project, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	var result []model.Project
	for _, p := range m.projects {
		if memberID != "" && !m.members[p.ID][memberID] {
			continue
		}
		result = append(result, m.hydrate(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	stored := *project
	stored.Users, stored.Tasks = nil, nil
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.projects, id)
	delete(m.members, id)
	if m.tasks != nil {
		for tid, t := range m.tasks.tasks {
			if t.ProjectID == id {
				delete(m.tasks.tasks, tid)
			}
		}
	}
	return nil
}

func (m *mockProjectRepo) AddMember(_ context.Context, projectID, userID string) error {
	if m.members[projectID] == nil {
		m.members[projectID] = make(map[string]bool)
	}
	m.members[projectID][userID] = true
	return nil
}

func (m *mockProjectRepo) RemoveMember(_ context.Context, projectID, userID string) error {
	delete(m.members[projectID], userID)
	return nil
}

func (m *mockProjectRepo) IsMember(_ context.Context, projectID, userID string) (bool, error) {
	return m.members[projectID][userID], nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
	seq   int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.seq++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%03d", m.seq)
	}
	now := time.Now().Add(time.Duration(m.seq) * time.Second)
	task.CreatedAt, task.UpdatedAt = now, now
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		out := *t
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) filter(keep func(*model.Task) bool) []model.Task {
	var result []model.Task
	for _, t := range m.tasks {
		if keep(t) {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID string) ([]model.Task, error) {
	return m.filter(func(t *model.Task) bool { return t.UserID == userID }), nil
}

func (m *mockTaskRepo) ListByProject(_ context.Context, projectID string) ([]model.Task, error) {
	return m.filter(func(t *model.Task) bool { return t.ProjectID == projectID }), nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	out := *task
	m.tasks[task.ID] = &out
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.tasks, id)
	return nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	activities []model.Activity
	fail       error
}

func (m *mockActivityRepo) Create(_ context.Context, activity *model.Activity) error {
	if m.fail != nil {
		return m.fail
	}
	activity.ID = fmt.Sprintf("activity-%03d", len(m.activities)+1)
	m.activities = append(m.activities, *activity)
	return nil
}

// ── Mock DashboardRepository ──

type mockDashboardRepo struct {
	users    *mockUserRepo
	snapshot *repository.DashboardSnapshot
	err      error
	calls    int
}

// Snapshot 与真实实现一致：用户查询与计数在同一次调用内完成
func (m *mockDashboardRepo) Snapshot(_ context.Context, userID string) (*repository.DashboardSnapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snap := &repository.DashboardSnapshot{}
	if m.snapshot != nil {
		copied := *m.snapshot
		snap = &copied
	}
	snap.User = *u
	return snap, nil
}

// ── 测试辅助 ──

var errStoreDown = errors.New("connection refused")

type mockRepos struct {
	repo       *repository.Repository
	users      *mockUserRepo
	projects   *mockProjectRepo
	tasks      *mockTaskRepo
	activities *mockActivityRepo
	dashboard  *mockDashboardRepo
}

// newMockRepository 组装内存仓储；db 为 nil，Transaction 直接在聚合上执行
func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	tasks := newMockTaskRepo()
	m := &mockRepos{
		users:      users,
		projects:   newMockProjectRepo(users, tasks),
		tasks:      tasks,
		activities: &mockActivityRepo{},
		dashboard:  &mockDashboardRepo{users: users},
	}
	repo := &repository.Repository{
		User:      m.users,
		Project:   m.projects,
		Task:      m.tasks,
		Activity:  m.activities,
		Dashboard: m.dashboard,
	}
	m.repo = repo
	return repo, m
}

// seedUser 直接写入用户（密码哈希为固定占位值）
func (m *mockRepos) seedUser(name, email, role string) *model.User {
	u := &model.User{Name: name, Email: email, Role: role, PasswordHash: "x"}
	_ = m.users.Create(context.Background(), u)
	return u
}
