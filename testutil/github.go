package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-task-tracker/backend/internal/config"
)

// FakeGitHub は認可コード ValidCode だけを受け付ける GitHub のスタブです。
type FakeGitHub struct {
	Server    *httptest.Server
	ValidCode string
	Login     string
	Name      string
}

// NewFakeGitHub はスタブサーバーを起動します。サーバーはテスト終了時に停止します。
func NewFakeGitHub(t *testing.T, login, name string) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{ValidCode: "valid-code", Login: login, Name: name}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != f.ValidCode {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_" + f.Login, "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_"+f.Login {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"login": f.Login, "name": f.Name})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Configure は設定の GitHub URL をスタブに向けます。SetupTestDB のオプションとして使います。
func (f *FakeGitHub) Configure(cfg *config.Config) {
	cfg.GitHub.AuthURL = f.Server.URL + "/login/oauth/authorize"
	cfg.GitHub.TokenURL = f.Server.URL + "/login/oauth/access_token"
	cfg.GitHub.APIURL = f.Server.URL
}
