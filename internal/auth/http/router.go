package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/directory"
	"github.com/aussiebroadwan/passport/internal/auth/store"
	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/aussiebroadwan/passport/pkg/httpx"
	"github.com/aussiebroadwan/passport/pkg/slogx"

	_ "github.com/aussiebroadwan/passport/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store     store.Store
	directory directory.Client

	Engine CredentialEngine

	// Rate limits per route group. NewRouter fills in the defaults.
	LoginLimit  httpx.RateLimitConfig
	TokensLimit httpx.RateLimitConfig
	HealthLimit httpx.RateLimitConfig
}

func NewRouter(
	buildVersion string,
	st store.Store,
	dir directory.Client,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		directory:    dir,
		logger:       logger,
		LoginLimit:   httpx.StrictLimit,
		TokensLimit:  httpx.ModerateLimit,
		HealthLimit:  httpx.LenientLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCredentials()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Passport Credential Service API
//	@version		0.1.0
//	@description	Issues and re-issues signed bearer tokens for federated (apple, kakao) logins. Identity records live in a separate user directory reached through service discovery.
//	@description
//	@description				All tokens are signed with a shared HMAC secret (HS512 by default).
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/passport
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token issued by this service. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// rateLimited answers throttled requests with the standard envelope.
func rateLimited(w http.ResponseWriter, _ *http.Request) {
	authsdk.RateLimited.Write(w, nil)
}

func (r *Router) registerCredentials() {
	// POST /login - strict rate limit by IP + identifier so one address
	// cannot enumerate identities
	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{Engine: r.Engine},
			httpx.RateLimitByIPAndJSONField(r.LoginLimit, "identifier", rateLimited),
		),
	)

	// GET /tokens - moderate rate limit by IP
	r.Mux.Handle("GET /tokens",
		httpx.Chain(&TokensHandler{Engine: r.Engine},
			httpx.RateLimitByIP(r.TokensLimit, rateLimited),
		),
	)

	// POST /logout - nothing to protect server side, lenient limit
	r.Mux.Handle("POST /logout",
		httpx.Chain(LogoutHandler(),
			httpx.RateLimitByIP(r.HealthLimit, rateLimited),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.HealthLimit, nil),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.directory),
			httpx.RateLimitByIP(r.HealthLimit, nil),
		),
	)
}
