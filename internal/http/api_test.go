package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "github.com/dropDatabas3/coldquote/internal/cache/memory"
	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/fastquote"
	"github.com/dropDatabas3/coldquote/internal/rate"
	"github.com/dropDatabas3/coldquote/internal/security/password"
	storemem "github.com/dropDatabas3/coldquote/internal/store/memory"
	"github.com/dropDatabas3/coldquote/internal/token"
	"github.com/dropDatabas3/coldquote/internal/usecases"
)

type testEnv struct {
	router http.Handler
	store  *storemem.Store
	tokens token.Service
}

func newTestEnv(t *testing.T, limiter rate.Limiter) *testEnv {
	t.Helper()

	hasher := password.NewArgon2id(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32})
	st := storemem.New(hasher)
	tokens := token.NewJWT("secreto-de-test", "coldquote", time.Hour)

	users, projects, coefs := st.Users(), st.Projects(), st.Coefficients()
	quotes := fastquote.NewService(coefs, cachemem.New(time.Minute), time.Minute)

	api := &API{
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

	return &testEnv{router: NewRouter(api), store: st, tokens: tokens}
}

// signUp crea la cuenta directo contra el store y retorna usuario + token.
func (e *testEnv) signUp(t *testing.T, email string, role repository.Role) (*repository.User, string) {
	t.Helper()
	u, err := e.store.Users().SignUp(context.Background(), email, "clave-123!", role)
	require.NoError(t, err)
	tk, err := e.tokens.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return u, tk
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/auth/register", "",
		map[string]string{"email": "ana@frio.example", "password": "clave-123!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[userDTO](t, rec)
	assert.Equal(t, "USER", created.Role)

	// email repetido
	rec = env.do(t, http.MethodPost, "/v1/auth/register", "",
		map[string]string{"email": "ana@frio.example", "password": "clave-123!"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// password débil
	rec = env.do(t, http.MethodPost, "/v1/auth/register", "",
		map[string]string{"email": "bruno@frio.example", "password": "corta"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// login mal
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "ana@frio.example", "password": "otra-clave9!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// login bien
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "ana@frio.example", "password": "clave-123!"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[loginResponse](t, rec)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "Bearer", login.TokenType)

	// el token sirve para ver el propio perfil
	rec = env.do(t, http.MethodGet, "/v1/users/"+login.User.ID, login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	limiter := rate.New(cachemem.New(time.Minute), "rl:", 2, time.Minute)
	env := newTestEnv(t, limiter)
	env.signUp(t, "ana@frio.example", repository.RoleUser)

	body := map[string]string{"email": "ana@frio.example", "password": "clave-equivocada1!"}
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = env.do(t, http.MethodGet, "/v1/projects", "token-trucho", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserVisibility(t *testing.T) {
	env := newTestEnv(t, nil)
	ana, anaTk := env.signUp(t, "ana@frio.example", repository.RoleUser)
	_, brunoTk := env.signUp(t, "bruno@frio.example", repository.RoleUser)
	_, modTk := env.signUp(t, "mod@frio.example", repository.RoleModerator)
	_, adminTk := env.signUp(t, "admin@frio.example", repository.RoleAdmin)

	// cada uno ve lo suyo
	rec := env.do(t, http.MethodGet, "/v1/users/"+ana.ID, anaTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// un USER no ve perfiles ajenos
	rec = env.do(t, http.MethodGet, "/v1/users/"+ana.ID, brunoTk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// MODERATOR y ADMIN sí
	rec = env.do(t, http.MethodGet, "/v1/users/"+ana.ID, modTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/users/"+ana.ID, adminTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// listado: USER no, MODERATOR sí
	rec = env.do(t, http.MethodGet, "/v1/users", anaTk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/users", modTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// borrar: solo ADMIN
	rec = env.do(t, http.MethodDelete, "/v1/users/"+ana.ID, modTk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, "/v1/users/"+ana.ID, adminTk, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/users/"+ana.ID, adminTk, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	_, ownerTk := env.signUp(t, "ana@frio.example", repository.RoleUser)
	guest, guestTk := env.signUp(t, "bruno@frio.example", repository.RoleUser)
	_, adminTk := env.signUp(t, "admin@frio.example", repository.RoleAdmin)

	// crear: el creador queda como ADMIN del proyecto
	rec := env.do(t, http.MethodPost, "/v1/projects", ownerTk,
		map[string]string{"project_number": "P-001", "name": "Cámara Norte", "description": "túnel"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[projectDTO](t, rec)
	require.Len(t, p.Members, 1)
	assert.Equal(t, "ADMIN", p.Members[0].Role)

	// nombre duplicado
	rec = env.do(t, http.MethodPost, "/v1/projects", guestTk,
		map[string]string{"project_number": "P-002", "name": "Cámara Norte"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// un no-miembro no puede mutar el proyecto
	rec = env.do(t, http.MethodPut, "/v1/projects/"+p.ID, guestTk,
		map[string]string{"project_number": "P-001", "name": "Hackeada"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// el ADMIN del proyecto sí
	rec = env.do(t, http.MethodPut, "/v1/projects/"+p.ID, ownerTk,
		map[string]string{"project_number": "P-001", "name": "Cámara Norte Bis", "description": "ampliación"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Cámara Norte Bis", decode[projectDTO](t, rec).Name)

	// sumar miembro: solo el ADMIN del proyecto
	rec = env.do(t, http.MethodPost, "/v1/projects/"+p.ID+"/members", guestTk,
		map[string]string{"user_id": guest.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/projects/"+p.ID+"/members", ownerTk,
		map[string]string{"user_id": guest.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "MEMBER", decode[memberDTO](t, rec).Role)

	// miembro repetido
	rec = env.do(t, http.MethodPost, "/v1/projects/"+p.ID+"/members", ownerTk,
		map[string]string{"user_id": guest.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// un MEMBER sigue sin poder mutar
	rec = env.do(t, http.MethodPut, "/v1/projects/"+p.ID, guestTk,
		map[string]string{"project_number": "P-001", "name": "Otra"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// pero sí puede leer y listar
	rec = env.do(t, http.MethodGet, "/v1/projects/"+p.ID, guestTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/projects/"+p.ID+"/members", guestTk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/users/"+guest.ID+"/projects", guestTk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]projectDTO](t, rec), 1)

	// el ADMIN global pasa el guard de proyecto sin membresía
	rec = env.do(t, http.MethodDelete, "/v1/projects/"+p.ID+"/members/"+guest.ID, adminTk, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// sacar a quien ya no es miembro: conflicto
	rec = env.do(t, http.MethodDelete, "/v1/projects/"+p.ID+"/members/"+guest.ID, ownerTk, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// borrar el proyecto
	rec = env.do(t, http.MethodDelete, "/v1/projects/"+p.ID, ownerTk, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/projects/"+p.ID, ownerTk, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHumidAirEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	// público, sin token
	rec := env.do(t, http.MethodPost, "/v1/humid-air", "",
		map[string]float64{"temp_dry_bulb": 25, "relative_humidity": 0.5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	props := decode[map[string]float64](t, rec)
	assert.InDelta(t, 0.00988, props["humidity_ratio"], 0.0002)
	assert.InDelta(t, 13.9, props["temp_dew_point"], 0.3)

	// fuera de rango
	rec = env.do(t, http.MethodPost, "/v1/humid-air", "",
		map[string]float64{"temp_dry_bulb": 25, "relative_humidity": 1.5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFastQuoteEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	_, userTk := env.signUp(t, "ana@frio.example", repository.RoleUser)
	_, adminTk := env.signUp(t, "admin@frio.example", repository.RoleAdmin)

	coefBody := map[string]any{"category": "CF", "vol_min": 0, "vol_max": 500, "coef": 120}

	// alta de coeficientes: solo ADMIN global
	rec := env.do(t, http.MethodPost, "/v1/fast-quote/coefficients", userTk, coefBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/fast-quote/coefficients", adminTk, coefBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	coef := decode[coefficientDTO](t, rec)
	require.NotEmpty(t, coef.ID)

	// banda duplicada
	rec = env.do(t, http.MethodPost, "/v1/fast-quote/coefficients", adminTk, coefBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// cualquier usuario autenticado cotiza
	rec = env.do(t, http.MethodPost, "/v1/fast-quote/cold-room", userTk,
		map[string]any{"length": 10, "width": 8.5, "height": 4.2, "category": "CF"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decode[coldRoomResponse](t, rec)
	assert.InDelta(t, 357.0, q.Volume, 0.001)
	assert.InDelta(t, 42.84, q.CoolingLoad, 0.001)

	// sin banda que cubra el volumen
	rec = env.do(t, http.MethodPost, "/v1/fast-quote/cold-room", userTk,
		map[string]any{"length": 50, "width": 50, "height": 10, "category": "CF"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// update de la banda
	rec = env.do(t, http.MethodPut, "/v1/fast-quote/coefficients/"+coef.ID, adminTk,
		map[string]any{"category": "CF", "vol_min": 0, "vol_max": 500, "coef": 130})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/fast-quote/coefficients", userTk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]coefficientDTO](t, rec), 1)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeRequired(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		bytes.NewBufferString(`{"email":"a@b.c","password":"clave-123!"}`))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
