package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review_app/internal/http/handlers"
	"review_app/internal/models"
	"review_app/internal/rbac"
)

// Endpoint is the handler for one method of a route. Access tightens the
// route's policy for this method only; rbac.Inherit keeps it.
type Endpoint struct {
	Access  rbac.Policy
	Handler gin.HandlerFunc
}

// Route is one entry of the API surface. Patterns use gin syntax and are
// mounted below the configured base path; literal segments always win over
// :params in gin's tree, independent of table order.
type Route struct {
	Name     string
	Pattern  string
	Aliases  []string
	Access   rbac.Policy
	SkipAjax bool
	Methods  map[string]Endpoint
}

func (rt Route) Paths() []string {
	return append([]string{rt.Pattern}, rt.Aliases...)
}

func ep(h gin.HandlerFunc) Endpoint { return Endpoint{Handler: h} }

// Routes returns the full API table.
func Routes(d Deps) []Route {
	db := d.DB
	cfg := d.Config
	rankingOpts := handlers.RankingOptions{
		RatingThreshold:  cfg.RatingThreshold,
		CentralThreshold: cfg.CentralThreshold,
		BaseURL:          cfg.BaseURL,
		BasePath:         cfg.BasePath,
		Now:              d.Now,
	}
	jsonRankingOpts := rankingOpts
	jsonRankingOpts.ForceJSON = true

	return []Route{
		// Session
		{Name: "health", Pattern: "/health", Access: rbac.Public, SkipAjax: true, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.Health(db)),
		}},
		{Name: "login", Pattern: "/login", Access: rbac.Guest, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.LoginHandler(db, d.Sessions)),
		}},
		{Name: "register", Pattern: "/register", Access: rbac.Guest, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.RegisterHandler(db)),
		}},
		{Name: "logout", Pattern: "/logout", Access: rbac.Public, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.LogoutHandler(d.Sessions)),
		}},
		{Name: "auth-status", Pattern: "/auth/status", Access: rbac.Public, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.AuthStatusHandler()),
		}},
		{Name: "check", Pattern: "/check", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.CheckHandler()),
		}},

		// Account
		{Name: "account", Pattern: "/account", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.GetAccount(db)),
			http.MethodPut: ep(handlers.UpdateAccount(db, d.Sessions)),
		}},
		{Name: "my-reviews", Pattern: "/reviews", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListMyReviews(db)),
		}},
		{Name: "my-review", Pattern: "/reviews/:id", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodDelete: ep(handlers.DeleteReview(db, true)),
		}},

		// Catalogue
		{Name: "categories", Pattern: "/categories", Access: rbac.Public, Methods: map[string]Endpoint{
			http.MethodGet:  ep(handlers.ListCategories(db)),
			http.MethodPost: {Access: rbac.Authenticated, Handler: handlers.CreateCategory(db)},
		}},
		{Name: "categories-approved", Pattern: "/categories/approved", Access: rbac.Public, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListApprovedCategories(db)),
		}},
		{Name: "traits", Pattern: "/traits/:category", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet:  ep(handlers.ListTraitsByCategory(db)),
			http.MethodPost: ep(handlers.CreateTrait(db)),
		}},
		{Name: "entities", Pattern: "/entities/:category", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet:  ep(handlers.ListEntitiesByCategory(db, false)),
			http.MethodPost: ep(handlers.CreateEntity(db)),
		}},
		{Name: "entities-approved", Pattern: "/entities/:category/approved", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListEntitiesByCategory(db, true)),
		}},
		{Name: "entity-reviews", Pattern: "/entities/:category/:entityId", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet:  ep(handlers.ListEntityReviews(db)),
			http.MethodPost: ep(handlers.CreateReview(db)),
		}},

		// Q&A
		{Name: "qa-answer", Pattern: "/qa/answer/:questionId", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.AddAnswer(db)),
		}},
		{Name: "qa-vote", Pattern: "/qa/vote/:answerId", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.VoteAnswer(db)),
		}},
		{Name: "qa-questions", Pattern: "/qa/:category/:entityId", Access: rbac.Authenticated, Methods: map[string]Endpoint{
			http.MethodGet:  ep(handlers.ListQuestions(db)),
			http.MethodPost: ep(handlers.AddQuestion(db)),
		}},

		// Rankings
		{Name: "rss-rankings", Pattern: "/rss-rankings", Aliases: []string{"/rss-rankings/"}, Access: rbac.Authenticated, SkipAjax: true, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.Rankings(d.Rankings, rankingOpts)),
		}},
		{Name: "rss-json", Pattern: "/rss-json", Aliases: []string{"/rss-json/"}, Access: rbac.Authenticated, SkipAjax: true, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.Rankings(d.Rankings, jsonRankingOpts)),
		}},

		// Administration
		{Name: "users", Pattern: "/users", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListUsers(db)),
		}},
		{Name: "user", Pattern: "/users/:id", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodDelete: ep(handlers.DeleteUser(db)),
		}},
		{Name: "admin-traits", Pattern: "/admin/traits", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListTraits(db)),
		}},
		{Name: "admin-categories", Pattern: "/admin/categories", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListCategories(db)),
		}},
		{Name: "admin-categories-import", Pattern: "/admin/categories/import", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodPost: ep(handlers.ImportCategory(db)),
		}},
		{Name: "admin-category", Pattern: "/admin/categories/:id", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodDelete: ep(handlers.DeleteCategory(db)),
		}},
		{Name: "admin-category-approve", Pattern: "/admin/categories/:id/approve", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodPatch: ep(handlers.SetCategoryStatus(db, models.StatusApproved)),
		}},
		{Name: "admin-category-reject", Pattern: "/admin/categories/:id/reject", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodPatch: ep(handlers.SetCategoryStatus(db, models.StatusRejected)),
		}},
		{Name: "admin-entities", Pattern: "/admin/entities", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListEntities(db)),
		}},
		{Name: "admin-entity", Pattern: "/admin/entities/:id", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodDelete: ep(handlers.DeleteEntity(db)),
		}},
		{Name: "admin-entity-approve", Pattern: "/admin/entities/:id/approve", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodPatch: ep(handlers.SetEntityStatus(db, models.StatusApproved)),
		}},
		{Name: "admin-entity-reject", Pattern: "/admin/entities/:id/reject", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodPatch: ep(handlers.SetEntityStatus(db, models.StatusRejected)),
		}},
		{Name: "admin-reviews", Pattern: "/admin/reviews", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListReviews(db)),
		}},
		{Name: "admin-review", Pattern: "/admin/reviews/:id", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodDelete: ep(handlers.DeleteReview(db, false)),
		}},
		{Name: "admin-stats", Pattern: "/admin/stats", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.AdminStats(db)),
		}},
		{Name: "admin-audit", Pattern: "/admin/audit", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.ListAudit(db)),
		}},
		{Name: "categories-stats", Pattern: "/categories-stats", Access: rbac.Admin, Methods: map[string]Endpoint{
			http.MethodGet: ep(handlers.CategoryStats(db)),
		}},
	}
}
