//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omangatech-hub/chefconta/internal/config"
	"github.com/omangatech-hub/chefconta/internal/infra"
	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var reader *bytes.Buffer
	if body == nil {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = body
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("chefconta_test"),
		tcPostgres.WithUsername("chefconta"),
		tcPostgres.WithPassword("chefconta"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		NomeLoja:           "ChefConta Teste",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:  "admin",
		Nome:      "Admin E2E",
		SenhaHash: string(hash),
		Papel:     model.PapelAdmin,
		Ativo:     true,
	}).Error)

	srv := httptest.NewServer(New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// Full day cycle: open caixa, sell, sangria, close with counted totals.
func TestE2E_CicloCompletoDeCaixa(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{
			"codigo":      "REF001",
			"nome":        "Refrigerante 500ml",
			"unidade":     "UN",
			"preco_venda":   "5.00",
			"estoque_atual": "20",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	caixaResp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"saldo_inicial": "200.00"}), env.token)
	require.Equal(t, http.StatusCreated, caixaResp.StatusCode)
	var caixa struct {
		CaixaID string `json:"caixa_id"`
	}
	decodeJSON(t, caixaResp, &caixa)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"canal":            "balcao",
			"metodo_pagamento": "dinheiro",
			"items": []map[string]any{
				{"produto_id": prod.ID, "quantidade": "3"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		Numero string `json:"numero"`
		Total  string `json:"total"`
		Aviso  string `json:"aviso"`
	}
	decodeJSON(t, vendaResp, &venda)
	assert.NotEmpty(t, venda.Numero)
	assert.Equal(t, "15", venda.Total)
	assert.Empty(t, venda.Aviso)

	sangriaResp := do(t, env.server, "POST", "/v1/caixa/sangria",
		jsonBody(t, map[string]any{"valor": "50.00", "descricao": "Depósito no banco"}), env.token)
	require.Equal(t, http.StatusCreated, sangriaResp.StatusCode)

	// Expected cash: 200 + 15 - 50 = 165. Count one real short.
	fecharResp := do(t, env.server, "POST", "/v1/caixa/"+caixa.CaixaID+"/fechar",
		jsonBody(t, map[string]any{
			"contado_dinheiro": "164.00",
			"contado_cartao":   "0",
			"contado_pix":      "0",
			"contado_outros":   "0",
		}), env.token)
	require.Equal(t, http.StatusOK, fecharResp.StatusCode)
	var fechamento struct {
		SaldoEsperado     string `json:"saldo_esperado"`
		SaldoFinal        string `json:"saldo_final"`
		Diferenca         string `json:"diferenca"`
		DiferencaMaterial bool   `json:"diferenca_material"`
	}
	decodeJSON(t, fecharResp, &fechamento)
	assert.Equal(t, "165", fechamento.SaldoEsperado)
	assert.Equal(t, "164", fechamento.SaldoFinal)
	assert.Equal(t, "-1", fechamento.Diferenca)
	assert.True(t, fechamento.DiferencaMaterial)
}

// A second open while one caixa is active must be rejected with 409.
func TestE2E_CaixaDuplicadoRejeitado(t *testing.T) {
	env := setupTestEnv(t)

	first := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"saldo_inicial": "100.00"}), env.token)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"saldo_inicial": "100.00"}), env.token)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

// Sales go through even without an open caixa; the response carries a warning.
func TestE2E_VendaSemCaixaAvisa(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{
			"codigo":      "AGU001",
			"nome":        "Água Mineral",
			"unidade":     "UN",
			"preco_venda":   "3.00",
			"estoque_atual": "10",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"canal":            "comanda",
			"metodo_pagamento": "pix",
			"items": []map[string]any{
				{"produto_id": prod.ID, "quantidade": "1"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		Aviso string `json:"aviso"`
	}
	decodeJSON(t, vendaResp, &venda)
	assert.NotEmpty(t, venda.Aviso)
}
