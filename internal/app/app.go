// Package app arma el grafo de dependencias del proceso: config, logger,
// storage, cache, tokens y use cases, todo inyectado a mano en el arranque.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/coldquote/internal/cache"
	cachemem "github.com/dropDatabas3/coldquote/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/coldquote/internal/cache/redis"
	"github.com/dropDatabas3/coldquote/internal/config"
	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/fastquote"
	apihttp "github.com/dropDatabas3/coldquote/internal/http"
	"github.com/dropDatabas3/coldquote/internal/rate"
	"github.com/dropDatabas3/coldquote/internal/security/password"
	storemem "github.com/dropDatabas3/coldquote/internal/store/memory"
	"github.com/dropDatabas3/coldquote/internal/store/pg"
	"github.com/dropDatabas3/coldquote/internal/token"
	"github.com/dropDatabas3/coldquote/internal/usecases"
)

// Container agrupa todo lo construido. Close libera los recursos.
type Container struct {
	Cfg    *config.Config
	API    *apihttp.API
	PG     *pg.Store // nil con driver memory
	Tokens token.Service
}

// New construye el container completo a partir de la config.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (COLDQUOTE_JWT_SECRET)")
	}

	hasher := password.NewArgon2id(password.DefaultParams)
	tokens := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTTL())

	var (
		users    repository.UserRepository
		projects repository.ProjectRepository
		coefs    repository.CoefficientRepository
		pgStore  *pg.Store
	)

	switch strings.ToLower(cfg.Storage.Driver) {
	case "memory":
		st := storemem.New(hasher)
		users, projects, coefs = st.Users(), st.Projects(), st.Coefficients()
	case "postgres", "":
		if cfg.Storage.DSN == "" {
			return nil, fmt.Errorf("storage dsn is required with the postgres driver")
		}
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		pgStore = st
		users, projects, coefs = st.Users(hasher), st.Projects(), st.Coefficients()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	var c cache.Cache
	switch strings.ToLower(cfg.Cache.Kind) {
	case "redis":
		c = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	default:
		c = cachemem.New(cfg.MemoryTTL())
	}

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.New(c, "rl:login:", cfg.Rate.Login.Limit, cfg.LoginWindow())
	}

	quotes := fastquote.NewService(coefs, c, cfg.MemoryTTL())

	api := &apihttp.API{
		Tokens:   tokens,
		Projects: projects,

		SignUp:       usecases.SignUpUser{Users: users},
		Login:        usecases.LoginUser{Users: users, Tokens: tokens},
		Profile:      usecases.GetUserProfile{Users: users},
		Users:        usecases.GetAllUsers{Users: users},
		DeleteUser:   usecases.DeleteUser{Users: users},
		UserProjects: usecases.GetUserProjects{Projects: projects},

		CreateProject: usecases.CreateProject{Projects: projects},
		UpdateProject: usecases.UpdateProject{Projects: projects},
		DeleteProject: usecases.DeleteProject{Projects: projects},
		GetProject:    usecases.GetProjectByID{Projects: projects},
		ListProjects:  usecases.GetAllProjects{Projects: projects},
		AddMember:     usecases.AddProjectMember{Projects: projects},
		RemoveMember:  usecases.RemoveProjectMember{Projects: projects},
		ListMembers:   usecases.GetProjectMembers{Projects: projects},

		HumidAir:   usecases.GetHumidAirProps{},
		ColdRoom:   usecases.CalcColdRoomFast{Quotes: quotes},
		AddCoef:    usecases.AddCoefficient{Coefs: coefs},
		UpdateCoef: usecases.UpdateCoefficient{Coefs: coefs},
		ListCoefs:  usecases.ListCoefficients{Coefs: coefs},
		LoginLimit: limiter,
	}
	if pgStore != nil {
		api.ReadyPinger = func() error { return pgStore.Ping(context.Background()) }
	}

	return &Container{Cfg: cfg, API: api, PG: pgStore, Tokens: tokens}, nil
}

// Close libera recursos del container.
func (c *Container) Close() {
	if c.PG != nil {
		c.PG.Close()
	}
}
