package service

import (
	"context"
	"testing"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Criar(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) BuscarPorUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) Listar(_ context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Ativo || incluirInativos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Atualizar(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) Desativar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
	}
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, senha, papel string, ativo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID:        uuid.New(),
		Username:  username,
		Nome:      username,
		SenhaHash: string(hash),
		Papel:     papel,
		Ativo:     ativo,
	}
	repo.usuarios[u.ID] = u
	return u
}

func newAuthForTest(repo repository.UsuarioRepository) AuthService {
	return NewAuthService(repo, "segredo-de-teste", 1, 24)
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "maria", "senha123", model.PapelOperador, true)
	svc := newAuthForTest(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "senha123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "maria", resp.User.Username)
	assert.Equal(t, model.PapelOperador, resp.User.Papel)
}

func TestLoginSenhaErrada(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "maria", "senha123", model.PapelOperador, true)
	svc := newAuthForTest(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "errada"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestLoginUsuarioDesconhecido(t *testing.T) {
	svc := newAuthForTest(newFakeUsuarioRepo())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ninguem", Password: "x"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestLoginUsuarioInativo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "jose", "senha123", model.PapelOperador, false)
	svc := newAuthForTest(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jose", Password: "senha123"})
	assert.ErrorIs(t, err, ErrUsuarioInativo)
}

func TestRefreshComTokenDeAcessoRejeitado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "maria", "senha123", model.PapelAdmin, true)
	svc := newAuthForTest(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "senha123"})
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalido)

	renovado, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
}

func TestCriarUsuarioDuplicado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := newAuthForTest(repo)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ana", Nome: "Ana", Password: "senha123", Papel: model.PapelOperador,
	})
	require.NoError(t, err)

	_, err = svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ana", Nome: "Outra Ana", Password: "outra123", Papel: model.PapelAdmin,
	})
	assert.ErrorIs(t, err, ErrUsuarioJaExiste)
}

func TestTrocarSenha(t *testing.T) {
	repo := newFakeUsuarioRepo()
	u := seedUsuario(t, repo, "maria", "antiga123", model.PapelOperador, true)
	svc := newAuthForTest(repo)

	err := svc.TrocarSenha(context.Background(), u.ID, dto.TrocarSenhaRequest{
		SenhaAtual: "errada", SenhaNova: "nova123",
	})
	assert.ErrorIs(t, err, ErrSenhaIncorreta)

	err = svc.TrocarSenha(context.Background(), u.ID, dto.TrocarSenhaRequest{
		SenhaAtual: "antiga123", SenhaNova: "nova123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "nova123"})
	assert.NoError(t, err)
}
