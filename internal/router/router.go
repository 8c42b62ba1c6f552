package router

import (
	"time"

	"github.com/omangatech-hub/chefconta/internal/config"
	"github.com/omangatech-hub/chefconta/internal/handler"
	"github.com/omangatech-hub/chefconta/internal/middleware"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"
	"github.com/omangatech-hub/chefconta/internal/service"
	"github.com/omangatech-hub/chefconta/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	despesaRepo := repository.NewDespesaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	produtoSvc := service.NewProdutoService(produtoRepo)
	caixaSvc := service.NewCaixaService(caixaRepo)
	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, caixaSvc)
	compraSvc := service.NewCompraService(compraRepo, produtoRepo, fornecedorRepo)
	despesaSvc := service.NewDespesaService(despesaRepo, fornecedorRepo)

	// Worker dispatcher — injected into handlers that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc, dispatcher)
	vendasH := handler.NewVendasHandler(vendaSvc, dispatcher)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	despesasH := handler.NewDespesasHandler(despesaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole(model.PapelOperador)
	admin := middleware.RequireRole(model.PapelAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)
		v1.POST("/auth/senha", authH.TrocarSenha)

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", operador, caixaH.Abrir)
			caixa.GET("/atual", operador, caixaH.Atual)
			caixa.POST("/movimento", operador, caixaH.Movimento)
			caixa.POST("/sangria", operador, caixaH.Sangria)
			caixa.POST("/reforco", operador, caixaH.Reforco)
			caixa.POST("/:id/fechar", operador, caixaH.Fechar)
			caixa.GET("/:id", operador, caixaH.Resumo)
			caixa.GET("", operador, caixaH.Listar)
			caixa.DELETE("/:id", admin, caixaH.Excluir)
		}

		vendas := v1.Group("/vendas", operador)
		{
			vendas.POST("", vendasH.Registrar)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/resumo", vendasH.Resumo)
			vendas.GET("/:id", vendasH.Buscar)
			vendas.POST("/:id/cancelar", vendasH.Cancelar)
		}

		// Catalog reads are open to operadores; writes are admin-only.
		v1.GET("/produtos", operador, produtosH.Listar)
		v1.GET("/produtos/estoque-baixo", operador, produtosH.EstoqueBaixo)
		v1.GET("/produtos/movimentos", operador, produtosH.MovimentosEstoque)
		v1.GET("/produtos/:id", operador, produtosH.Buscar)
		prods := v1.Group("/produtos", admin)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
			prods.POST("/:id/estoque", produtosH.AjustarEstoque)
		}

		v1.GET("/categorias", operador, produtosH.ListarCategorias)
		v1.POST("/categorias", admin, produtosH.CriarCategoria)

		compras := v1.Group("/compras", admin)
		{
			compras.POST("", comprasH.Registrar)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.Buscar)
		}

		fornecedores := v1.Group("/fornecedores", admin)
		{
			fornecedores.POST("", comprasH.CriarFornecedor)
			fornecedores.GET("", comprasH.ListarFornecedores)
		}

		despesas := v1.Group("/despesas", admin)
		{
			despesas.POST("", despesasH.Criar)
			despesas.GET("", despesasH.Listar)
			despesas.GET("/resumo", despesasH.Resumo)
			despesas.GET("/:id", despesasH.Buscar)
			despesas.POST("/:id/pagar", despesasH.MarcarPaga)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
