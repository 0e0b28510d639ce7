package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

type projectRepo struct {
	pool *pgxpool.Pool
}

const projectColumns = `id, project_number, name, description, created_at, updated_at`

func scanProject(row pgx.Row) (*repository.Project, error) {
	var p repository.Project
	if err := row.Scan(&p.ID, &p.Number, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func projectExists(ctx context.Context, tx pgx.Tx, id string) error {
	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM project WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
	}
	return nil
}

func loadMembers(ctx context.Context, tx pgx.Tx, projectID string) ([]repository.ProjectMembership, error) {
	rows, err := tx.Query(ctx, `
		SELECT project_id, user_id, role
		FROM project_membership
		WHERE project_id = $1
		ORDER BY user_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []repository.ProjectMembership{}
	for rows.Next() {
		var m repository.ProjectMembership
		var role string
		if err := rows.Scan(&m.ProjectID, &m.UserID, &role); err != nil {
			return nil, err
		}
		m.Role = repository.ProjectRole(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepo) Create(ctx context.Context, number, name, description, creatorID string) (*repository.Project, error) {
	if err := repository.ValidateProjectFields(number, name, description); err != nil {
		return nil, err
	}

	p := &repository.Project{
		ID:          uuid.NewString(),
		Number:      number,
		Name:        name,
		Description: description,
	}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// pre-checks dentro de la misma transacción que los inserts
		var taken bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM project WHERE name = $1)`, name,
		).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: project name %q already exists", repository.ErrConflict, name)
		}
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM project WHERE project_number = $1)`, number,
		).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: project number %q already exists", repository.ErrConflict, number)
		}

		var creatorExists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)`, creatorID,
		).Scan(&creatorExists); err != nil {
			return err
		}
		if !creatorExists {
			return fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, creatorID)
		}

		now := time.Now().UTC()
		if err := tx.QueryRow(ctx, `
			INSERT INTO project (id, project_number, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING created_at, updated_at`,
			p.ID, p.Number, p.Name, p.Description, now,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}

		// el creador entra como ADMIN en la misma transacción: o se persisten
		// las dos filas o ninguna
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_membership (project_id, user_id, role)
			VALUES ($1, $2, $3)`,
			p.ID, creatorID, string(repository.ProjectRoleAdmin),
		); err != nil {
			return err
		}
		p.Members = []repository.ProjectMembership{{
			ProjectID: p.ID,
			UserID:    creatorID,
			Role:      repository.ProjectRoleAdmin,
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) Update(ctx context.Context, id, number, name, description string) (*repository.Project, error) {
	if err := repository.ValidateProjectFields(number, name, description); err != nil {
		return nil, err
	}

	var p *repository.Project
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// lock de la fila para que dos renames concurrentes no pasen ambos el chequeo
		var locked string
		err := tx.QueryRow(ctx,
			`SELECT id FROM project WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		// unicidad excluyendo al propio proyecto: renombrar al mismo valor no conflictúa
		var taken bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM project WHERE name = $1 AND id <> $2)`, name, id,
		).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: project name %q already exists", repository.ErrConflict, name)
		}
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM project WHERE project_number = $1 AND id <> $2)`, number, id,
		).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: project number %q already exists", repository.ErrConflict, number)
		}

		// updated_at estrictamente posterior a created_at, incluso con reloj clavado
		row := tx.QueryRow(ctx, `
			UPDATE project
			SET project_number = $2, name = $3, description = $4,
			    updated_at = GREATEST(now(), created_at + interval '1 microsecond')
			WHERE id = $1
			RETURNING `+projectColumns, id, number, name, description)
		p, err = scanProject(row)
		if err != nil {
			return err
		}
		p.Members, err = loadMembers(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) DeleteByID(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// cascade explícito: membresías y proyecto caen en la misma transacción
		if _, err := tx.Exec(ctx,
			`DELETE FROM project_membership WHERE project_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
		}
		return nil
	})
}

func (r *projectRepo) AddMember(ctx context.Context, projectID, userID string, role repository.ProjectRole) (*repository.ProjectMembership, error) {
	if role == "" {
		role = repository.ProjectRoleMember
	}
	m := &repository.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		var userExists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)`, userID,
		).Scan(&userExists); err != nil {
			return err
		}
		if !userExists {
			return fmt.Errorf("%w: no user with id %q", repository.ErrNotFound, userID)
		}

		var member bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM project_membership
			WHERE project_id = $1 AND user_id = $2)`, projectID, userID,
		).Scan(&member); err != nil {
			return err
		}
		if member {
			return fmt.Errorf("%w: user is already a member of the project", repository.ErrConflict)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO project_membership (project_id, user_id, role)
			VALUES ($1, $2, $3)`, projectID, userID, string(role))
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *projectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			DELETE FROM project_membership
			WHERE project_id = $1 AND user_id = $2`, projectID, userID)
		if err != nil {
			return err
		}
		// cubre también userID desconocido: mismo resultado que "no es miembro"
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: user is not a member of the project", repository.ErrConflict)
		}
		return nil
	})
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	var p *repository.Project
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+projectColumns+` FROM project WHERE id = $1`, id)
		var err error
		p, err = scanProject(row)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: no project with id %q", repository.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		p.Members, err = loadMembers(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) List(ctx context.Context, limit int) ([]repository.Project, error) {
	projects := []repository.Project{}
	if limit <= 0 {
		return projects, nil
	}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+projectColumns+` FROM project ORDER BY name ASC LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProject(rows)
			if err != nil {
				return err
			}
			projects = append(projects, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) ListForUser(ctx context.Context, userID string) ([]repository.Project, error) {
	projects := []repository.Project{}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT p.id, p.project_number, p.name, p.description, p.created_at, p.updated_at
			FROM project p
			JOIN project_membership m ON m.project_id = p.id
			WHERE m.user_id = $1
			ORDER BY p.name ASC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProject(rows)
			if err != nil {
				return err
			}
			projects = append(projects, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) ListMembers(ctx context.Context, projectID string) ([]repository.User, error) {
	users := []repository.User{}
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `
			SELECT u.id, u.email, u.password_hash, u.role, u.created_at, u.updated_at
			FROM app_user u
			JOIN project_membership m ON m.user_id = u.id
			WHERE m.project_id = $1
			ORDER BY u.email ASC`, projectID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *projectRepo) GetMemberRole(ctx context.Context, projectID, userID string) (repository.ProjectRole, error) {
	var role string
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT role FROM project_membership
			WHERE project_id = $1 AND user_id = $2`, projectID, userID,
		).Scan(&role)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: user is not a member of the project", repository.ErrNotFound)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return repository.ProjectRole(role), nil
}
