package service

import (
	"context"
	"errors"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/middleware"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error)
	DesativarUsuario(ctx context.Context, id uuid.UUID) error
	TrocarSenha(ctx context.Context, usuarioID uuid.UUID, req dto.TrocarSenhaRequest) error
}

type authService struct {
	repo            repository.UsuarioRepository
	jwtSecret       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewAuthService(repo repository.UsuarioRepository, secret string, accessHours, refreshHours int) AuthService {
	return &authService{
		repo:            repo,
		jwtSecret:       []byte(secret),
		accessDuration:  time.Duration(accessHours) * time.Hour,
		refreshDuration: time.Duration(refreshHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.repo.BuscarPorUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Equalize timing between unknown user and wrong password.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv"), []byte(req.Password))
			return nil, ErrCredenciaisInvalidas
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	if !usuario.Ativo {
		return nil, ErrUsuarioInativo
	}
	return s.emitirTokens(usuario)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Subject != "refresh" {
		return nil, ErrTokenInvalido
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalido
	}
	usuario, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrTokenInvalido
	}
	if !usuario.Ativo {
		return nil, ErrUsuarioInativo
	}
	return s.emitirTokens(usuario)
}

func (s *authService) emitirTokens(u *model.Usuario) (*dto.LoginResponse, error) {
	agora := time.Now()

	access, err := s.assinar(u, "access", agora.Add(s.accessDuration))
	if err != nil {
		return nil, err
	}
	refresh, err := s.assinar(u, "refresh", agora.Add(s.refreshDuration))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessDuration.Seconds()),
		User:         usuarioParaResponse(u),
	}, nil
}

func (s *authService) assinar(u *model.Usuario, subject string, expira time.Time) (string, error) {
	claims := middleware.JWTClaims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Papel:    u.Papel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expira),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.BuscarPorUsername(ctx, req.Username); err == nil {
		return nil, ErrUsuarioJaExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Username:  req.Username,
		Nome:      req.Nome,
		Email:     req.Email,
		SenhaHash: string(hash),
		Papel:     req.Papel,
		Ativo:     true,
	}
	if err := s.repo.Criar(ctx, usuario); err != nil {
		return nil, err
	}
	resp := usuarioParaResponse(usuario)
	return &resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	usuario, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrUsuarioNaoEncontrado
	}

	if req.Nome != nil {
		usuario.Nome = *req.Nome
	}
	if req.Email != nil {
		usuario.Email = req.Email
	}
	if req.Papel != nil {
		usuario.Papel = *req.Papel
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		usuario.SenhaHash = string(hash)
	}

	if err := s.repo.Atualizar(ctx, usuario); err != nil {
		return nil, err
	}
	resp := usuarioParaResponse(usuario)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.repo.Listar(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, usuarioParaResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) DesativarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.BuscarPorID(ctx, id); err != nil {
		return ErrUsuarioNaoEncontrado
	}
	return s.repo.Desativar(ctx, id)
}

func (s *authService) TrocarSenha(ctx context.Context, usuarioID uuid.UUID, req dto.TrocarSenhaRequest) error {
	usuario, err := s.repo.BuscarPorID(ctx, usuarioID)
	if err != nil {
		return ErrUsuarioNaoEncontrado
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(req.SenhaAtual)); err != nil {
		return ErrSenhaIncorreta
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.SenhaNova), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	usuario.SenhaHash = string(hash)
	return s.repo.Atualizar(ctx, usuario)
}

func usuarioParaResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nome:     u.Nome,
		Email:    u.Email,
		Papel:    u.Papel,
		Ativo:    u.Ativo,
	}
}
