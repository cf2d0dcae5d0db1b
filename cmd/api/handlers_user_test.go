package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-api/internal/user"
)

func newUserRouter(repo *stubUserRepo) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", registerHandler(repo))
	r.POST("/auth/login", loginHandler(repo))
	r.GET("/users/:id", getUserHandler(repo))
	r.GET("/users", listUsersHandler(repo))
	r.PUT("/users/:id", updateUserHandler(repo))
	r.DELETE("/users/:id", deleteUserHandler(repo))
	r.PUT("/users/:id/role", updateUserRoleHandler(repo))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_OK_Duplicate_And_Invalid(t *testing.T) {
	repo := newStubUserRepo()
	r := newUserRouter(repo)

	body := `{"username":"ana","email":"ana@example.com","password":"s3cr3t0"}`
	w := doJSON(r, http.MethodPost, "/auth/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var created user.User
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Role != user.RoleCustomer {
		t.Fatalf("role=%q, esperado=customer", created.Role)
	}
	// el hash jamás sale en el JSON
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("la respuesta expone el password: %s", w.Body.String())
	}

	// email duplicado ⇒ 409
	if w := doJSON(r, http.MethodPost, "/auth/register", body); w.Code != http.StatusConflict {
		t.Fatalf("esperaba 409, got %d body=%s", w.Code, w.Body.String())
	}

	// faltan campos ⇒ 400
	if w := doJSON(r, http.MethodPost, "/auth/register", `{"username":"solo"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}
}

func TestLogin_OKTrue_And_OKFalse(t *testing.T) {
	repo := newStubUserRepo()
	r := newUserRouter(repo)

	reg := `{"username":"beto","email":"beto@example.com","password":"claveclave"}`
	w := doJSON(r, http.MethodPost, "/auth/register", reg)
	var created user.User
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	// credenciales correctas ⇒ ok=true con user_id
	w = doJSON(r, http.MethodPost, "/auth/login", `{"email":"beto@example.com","password":"claveclave"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp user.LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.OK || resp.UserID != created.ID {
		t.Fatalf("login inesperado: %+v", resp)
	}

	// password incorrecto ⇒ ok=false, nunca 401
	w = doJSON(r, http.MethodPost, "/auth/login", `{"email":"beto@example.com","password":"mala"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	resp = user.LoginResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.OK {
		t.Fatalf("ok=true con password incorrecto")
	}

	// email desconocido ⇒ ok=false
	w = doJSON(r, http.MethodPost, "/auth/login", `{"email":"nadie@example.com","password":"x"}`)
	resp = user.LoginResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.OK {
		t.Fatalf("esperaba ok=false, got code=%d resp=%+v", w.Code, resp)
	}
}

func TestGetUpdateDeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	r := newUserRouter(repo)
	u := seedUser(repo)

	if w := doJSON(r, http.MethodGet, "/users/"+u.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodGet, "/users/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}

	// update parcial: solo username
	w := doJSON(r, http.MethodPut, "/users/"+u.ID, `{"username":"nuevo-nombre"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got user.User
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Username != "nuevo-nombre" || got.Email != u.Email {
		t.Fatalf("update parcial no respetado: %+v", got)
	}

	if w := doJSON(r, http.MethodDelete, "/users/"+u.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodDelete, "/users/"+u.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404 al doble borrado, got %d", w.Code)
	}
}

func TestUpdateUserRole_Whitelist(t *testing.T) {
	repo := newStubUserRepo()
	r := newUserRouter(repo)
	u := seedUser(repo)

	w := doJSON(r, http.MethodPut, "/users/"+u.ID+"/role", `{"role":"admin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got user.User
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Role != user.RoleAdmin {
		t.Fatalf("role=%q, esperado=admin", got.Role)
	}

	// rol fuera de la lista ⇒ 400
	if w := doJSON(r, http.MethodPut, "/users/"+u.ID+"/role", `{"role":"superuser"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}
	// usuario inexistente ⇒ 404
	if w := doJSON(r, http.MethodPut, "/users/"+uuid.NewString()+"/role", `{"role":"admin"}`); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
}
