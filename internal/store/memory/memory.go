// Package memory implementa los repositorios en memoria, con la misma
// semántica transaccional que pg: cada operación es atómica bajo el lock y
// un error no deja escrituras parciales. Sirve como driver de dev y como
// doble de test para los use cases.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/security/password"
)

type membershipKey struct{ projectID, userID string }

// Store guarda usuarios y proyectos en colecciones independientes indexadas
// por id; la membresía vive solo en las filas de jonción.
type Store struct {
	mu           sync.Mutex
	hasher       password.Hasher
	users        map[string]repository.User
	projects     map[string]repository.Project
	memberships  map[membershipKey]repository.ProjectMembership
	coefficients map[string]repository.CoolingCoefficient
}

// New crea el store vacío.
func New(h password.Hasher) *Store {
	return &Store{
		hasher:       h,
		users:        make(map[string]repository.User),
		projects:     make(map[string]repository.Project),
		memberships:  make(map[membershipKey]repository.ProjectMembership),
		coefficients: make(map[string]repository.CoolingCoefficient),
	}
}

// Users retorna la vista UserRepository del store.
func (s *Store) Users() repository.UserRepository { return (*userRepo)(s) }

// Projects retorna la vista ProjectRepository del store.
func (s *Store) Projects() repository.ProjectRepository { return (*projectRepo)(s) }

// Coefficients retorna la vista CoefficientRepository del store.
func (s *Store) Coefficients() repository.CoefficientRepository { return (*coefficientRepo)(s) }

// ------------------------- users -------------------------

type userRepo Store

func (r *userRepo) SignUp(ctx context.Context, email, rawPassword string, role repository.Role) (*repository.User, error) {
	if err := repository.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := repository.ValidatePassword(rawPassword); err != nil {
		return nil, err
	}
	if role == "" {
		role = repository.RoleUser
	}
	hash, err := r.hasher.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return nil, fmt.Errorf("%w: email %q already registered", repository.ErrConflict, email)
		}
	}
	now := time.Now().UTC()
	u := repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *userRepo) Login(ctx context.Context, email, rawPassword string) (*repository.User, error) {
	r.mu.Lock()
	var found *repository.User
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			found = &cp
			break
		}
	}
	r.mu.Unlock()

	if found == nil {
		return nil, fmt.Errorf("%w: no user with email %q", repository.ErrNotFound, email)
	}
	if !r.hasher.Verify(rawPassword, found.PasswordHash) {
		return nil, repository.ErrInvalidCredential
	}
	return found, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, id)
	}
	return &u, nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, id)
	}
	delete(r.users, id)
	for k := range r.memberships {
		if k.userID == id {
			delete(r.memberships, k)
		}
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, limit int) ([]repository.User, error) {
	users := []repository.User{}
	if limit <= 0 {
		return users, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// ------------------------- projects -------------------------

type projectRepo Store

func (r *projectRepo) membersOf(projectID string) []repository.ProjectMembership {
	members := []repository.ProjectMembership{}
	for k, m := range r.memberships {
		if k.projectID == projectID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members
}

func (r *projectRepo) Create(ctx context.Context, number, name, description, creatorID string) (*repository.Project, error) {
	if err := repository.ValidateProjectFields(number, name, description); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.projects {
		if p.Name == name {
			return nil, fmt.Errorf("%w: project name %q already exists", repository.ErrConflict, name)
		}
		if p.Number == number {
			return nil, fmt.Errorf("%w: project number %q already exists", repository.ErrConflict, number)
		}
	}
	if _, ok := r.users[creatorID]; !ok {
		return nil, fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, creatorID)
	}

	// todos los chequeos pasaron: recién acá se escribe, proyecto y membresía
	// del creador juntos
	now := time.Now().UTC()
	p := repository.Project{
		ID:          uuid.NewString(),
		Number:      number,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m := repository.ProjectMembership{
		ProjectID: p.ID,
		UserID:    creatorID,
		Role:      repository.ProjectRoleAdmin,
	}
	r.projects[p.ID] = p
	r.memberships[membershipKey{p.ID, creatorID}] = m
	p.Members = []repository.ProjectMembership{m}
	return &p, nil
}

func (r *projectRepo) Update(ctx context.Context, id, number, name, description string) (*repository.Project, error) {
	if err := repository.ValidateProjectFields(number, name, description); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
	}
	for otherID, other := range r.projects {
		if otherID == id {
			continue
		}
		if other.Name == name {
			return nil, fmt.Errorf("%w: project name %q already exists", repository.ErrConflict, name)
		}
		if other.Number == number {
			return nil, fmt.Errorf("%w: project number %q already exists", repository.ErrConflict, number)
		}
	}

	p.Number = number
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now().UTC()
	if !p.UpdatedAt.After(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt.Add(time.Microsecond)
	}
	r.projects[id] = p
	p.Members = r.membersOf(id)
	return &p, nil
}

func (r *projectRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
	}
	delete(r.projects, id)
	for k := range r.memberships {
		if k.projectID == id {
			delete(r.memberships, k)
		}
	}
	return nil
}

func (r *projectRepo) AddMember(ctx context.Context, projectID, userID string, role repository.ProjectRole) (*repository.ProjectMembership, error) {
	if role == "" {
		role = repository.ProjectRoleMember
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[projectID]; !ok {
		return nil, fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, projectID)
	}
	if _, ok := r.users[userID]; !ok {
		return nil, fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, userID)
	}
	key := membershipKey{projectID, userID}
	if _, ok := r.memberships[key]; ok {
		return nil, fmt.Errorf("%w: user is already a member of the project", repository.ErrConflict)
	}
	m := repository.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}
	r.memberships[key] = m
	return &m, nil
}

func (r *projectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[projectID]; !ok {
		return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, projectID)
	}
	key := membershipKey{projectID, userID}
	if _, ok := r.memberships[key]; !ok {
		return fmt.Errorf("%w: user is not a member of the project", repository.ErrConflict)
	}
	delete(r.memberships, key)
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
	}
	p.Members = r.membersOf(id)
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, limit int) ([]repository.Project, error) {
	projects := []repository.Project{}
	if limit <= 0 {
		return projects, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	if len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (r *projectRepo) ListForUser(ctx context.Context, userID string) ([]repository.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := []repository.Project{}
	for k := range r.memberships {
		if k.userID == userID {
			if p, ok := r.projects[k.projectID]; ok {
				projects = append(projects, p)
			}
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

func (r *projectRepo) ListMembers(ctx context.Context, projectID string) ([]repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[projectID]; !ok {
		return nil, fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, projectID)
	}
	users := []repository.User{}
	for k := range r.memberships {
		if k.projectID == projectID {
			if u, ok := r.users[k.userID]; ok {
				users = append(users, u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *projectRepo) GetMemberRole(ctx context.Context, projectID, userID string) (repository.ProjectRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[membershipKey{projectID, userID}]
	if !ok {
		return "", fmt.Errorf("%w: user is not a member of the project", repository.ErrNotFound)
	}
	return m.Role, nil
}

// ------------------------- coefficients -------------------------

type coefficientRepo Store

func (r *coefficientRepo) Add(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	if err := coef.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coefficients {
		if c.Category == coef.Category && c.VolMin == coef.VolMin {
			return nil, fmt.Errorf("%w: coefficient for %s from %d m³ already exists",
				repository.ErrConflict, coef.Category, coef.VolMin)
		}
	}
	coef.ID = uuid.NewString()
	r.coefficients[coef.ID] = coef
	return &coef, nil
}

func (r *coefficientRepo) Update(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	if err := coef.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coefficients[coef.ID]; !ok {
		return nil, fmt.Errorf("%w: no coefficient with id %q", repository.ErrNotFound, coef.ID)
	}
	r.coefficients[coef.ID] = coef
	return &coef, nil
}

func (r *coefficientRepo) List(ctx context.Context, limit int) ([]repository.CoolingCoefficient, error) {
	coefs := []repository.CoolingCoefficient{}
	if limit <= 0 {
		return coefs, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coefficients {
		coefs = append(coefs, c)
	}
	sort.Slice(coefs, func(i, j int) bool {
		if coefs[i].Category != coefs[j].Category {
			return coefs[i].Category < coefs[j].Category
		}
		return coefs[i].VolMin < coefs[j].VolMin
	})
	if len(coefs) > limit {
		coefs = coefs[:limit]
	}
	return coefs, nil
}

func (r *coefficientRepo) FindForVolume(ctx context.Context, category repository.ColdRoomCategory, volume float64) (*repository.CoolingCoefficient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *repository.CoolingCoefficient
	for _, c := range r.coefficients {
		if c.Category != category {
			continue
		}
		if float64(c.VolMin) <= volume && volume <= float64(c.VolMax) {
			cp := c
			if best == nil || cp.VolMin < best.VolMin {
				best = &cp
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no coefficient for category %s and volume %.2f m³",
			repository.ErrNotFound, category, volume)
	}
	return best, nil
}
