package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/tododash/internal/api/grpc/handler"
	"github.com/dtroode/tododash/internal/api/grpc/middleware"
	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

// Router wires the Auth and Tables services into a gRPC server.
type Router struct {
	authService    handler.AuthService
	tablesService  handler.TablesService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	apiKey         string
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	authService handler.AuthService,
	tablesService handler.TablesService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	apiKey string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tablesService:  tablesService,
		tokenService:   tokenService,
		contextManager: contextManager,
		apiKey:         apiKey,
		logger:         logger,
	}
}

var requireBearer = map[string]bool{
	rpc.AuthSignOutMethod: true,
	rpc.AuthGetUserMethod: true,
}

var optionalBearer = map[string]bool{
	rpc.TablesSelectMethod: true,
	rpc.TablesInsertMethod: true,
	rpc.TablesUpdateMethod: true,
	rpc.TablesDeleteMethod: true,
	rpc.TablesExportMethod: true,
}

func matchMethods(methods map[string]bool) selector.Matcher {
	return selector.MatchFunc(func(_ context.Context, c interceptors.CallMeta) bool {
		return methods[c.FullMethod()]
	})
}

// Register builds the gRPC server. Every call must carry the API key;
// SignOut and GetUser need a bearer token, table calls may be anonymous.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	apiKey := middleware.NewAPIKey(r.apiKey)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			apiKey.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				matchMethods(requireBearer),
			),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.OptionalAuthFunc),
				matchMethods(optionalBearer),
			),
		),
	)
	r.registerAuthRoutes(s)
	r.registerTablesRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	rpc.RegisterAuthServer(server, authHandler)
}

func (r *Router) registerTablesRoutes(server *grpc.Server) {
	tablesHandler := handler.NewTables(r.tablesService, r.contextManager, r.logger)
	rpc.RegisterTablesServer(server, tablesHandler)
}
