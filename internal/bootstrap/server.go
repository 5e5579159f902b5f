package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/staybook/api"
	"github.com/Domenick1991/staybook/config"
	"github.com/Domenick1991/staybook/internal/service/auth"
	"github.com/Domenick1991/staybook/internal/service/booking"
	"github.com/Domenick1991/staybook/internal/service/catalog"
	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/Domenick1991/staybook/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// attemptWaitTimeout bounds one long-poll on an attempt's payment phase.
const attemptWaitTimeout = 25 * time.Second

type Services struct {
	Auth    auth.AuthUseCase
	Catalog catalog.CatalogUseCase
	Reviews reviews.ReviewUseCase
	Booking booking.BookingUseCase
	Guest   console.GuestUseCase
	Host    console.HostUseCase
	Admin   console.AdminUseCase
}

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	healthConn *grpc.ClientConn
	httpServer *http.Server
}

// Run starts the gRPC health server and the HTTP storefront and blocks until
// context is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	s, err := newServers(cfg, svc)
	if err != nil {
		return err
	}
	defer s.healthConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.health.Shutdown()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.grpcServer.GracefulStop()
		return nil
	}
}

func newServers(cfg *config.Config, svc Services) (*Servers, error) {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial health endpoint: %w", err)
	}
	gateway := runtime.NewServeMux(runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))

	router := newRouter(cfg, svc)
	router.GET("/healthz", gin.WrapH(gateway))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		healthConn: conn,
		httpServer: httpSrv,
	}, nil
}

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(), api.SessionMiddleware(svc.Auth))

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	api.NewAuthHandler(svc.Auth, sessionTTL).Register(router.Group("/api/auth"))
	api.NewHouseHandler(svc.Catalog, cfg.API.BaseURL).Register(router.Group("/api"))
	api.NewReviewHandler(svc.Reviews).Register(router.Group("/api/houses"))
	api.NewBookingHandler(svc.Booking, attemptWaitTimeout).Register(router.Group("/api/attempts"))
	api.NewTripHandler(svc.Guest).Register(router.Group("/api/bookings"))
	api.NewHostHandler(svc.Host).Register(router.Group("/api/host"))
	api.NewAdminHandler(svc.Admin, svc.Catalog).Register(router.Group("/api/admin"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	return router
}
