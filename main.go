package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jespitia/portal-ucundinamarca/config"
	"github.com/jespitia/portal-ucundinamarca/controllers"
	"github.com/jespitia/portal-ucundinamarca/database"
	authmiddleware "github.com/jespitia/portal-ucundinamarca/middleware"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/services"
)

func main() {
	seed := flag.Bool("seed", false, "insertar datos de demostración al iniciar")
	flag.Parse()

	// Load environment variables from .env file; every value has a default
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	// Initialize database
	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	db := database.GetDB()

	if *seed {
		if err := database.Seed(db, cfg.BcryptCost); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(repos, cfg.BcryptCost)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	// Set up router
	r, err := setupRouter(ctrl, cfg)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	fmt.Printf("🚀 Portal UCundinamarca starting on port %s\n", cfg.Port)
	fmt.Printf("📂 Visit: http://localhost:%s\n", cfg.Port)
	fmt.Printf("🗃️  Database driver: %s\n", cfg.DBDriver)

	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, cfg config.Config) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       cfg.SessionProvider,
		ProviderConfig: "",
		CookieName:     cfg.SessionCookie,
		Secure:         cfg.SecureCookies,
		Gclifetime:     int64(cfg.SessionLifetime),
		Maxlifetime:    int64(cfg.SessionLifetime),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	// Custom 404 page
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		controllers.ErrorPage(w, http.StatusNotFound, "La página que buscas no existe.")
	})

	// PUBLIC ROUTES (no authentication required)
	r.Get("/", ctrl.Auth.LoginForm)
	r.Get("/login", ctrl.Auth.LoginForm)
	r.Post("/login", ctrl.Auth.Login)
	r.Get("/registro", ctrl.Auth.RegistroForm)
	r.Post("/registro", ctrl.Auth.Registro)
	r.Get("/recuperar", ctrl.Auth.RecuperarForm)
	r.Post("/recuperar", ctrl.Auth.Recuperar)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "portal-ucundinamarca"}`)
	})

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)

		r.Get("/dashboard", ctrl.Dashboard.Index)
		r.Get("/chat", ctrl.Dashboard.Chat)
	})

	// ADMIN ROUTES (administrator role required)
	r.Route("/admin", func(r chi.Router) {
		// Server-rendered pages
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAdmin)

			r.Get("/", ctrl.Admin.Index)
			r.Get("/usuarios", ctrl.Admin.Usuarios)
			r.Get("/logs", ctrl.Admin.Logs)
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Use(authmiddleware.RequireAdminAPI)

			r.Get("/usuarios", ctrl.API.Usuarios)
			r.Get("/usuarios/{id}", ctrl.API.Usuario)
			r.Put("/usuarios/{id}", ctrl.API.ActualizarUsuario)
			r.Delete("/usuarios/{id}", ctrl.API.EliminarUsuario)
			r.Put("/usuarios/{id}/contrasena", ctrl.API.ResetearContrasena)
			r.Put("/usuarios/{id}/estado", ctrl.API.CambiarEstado)
			r.Get("/estadisticas", ctrl.API.Estadisticas)
			r.Get("/actividad", ctrl.API.Actividad)
			r.Get("/logs", ctrl.API.Logs)
		})
	})

	return r, nil
}
