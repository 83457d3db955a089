package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/auctions", handler.ListActiveAuctions)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLineupRoutes(mux, handler, verifier)
	registerAuthorizedClassRoutes(mux, handler, verifier)
	registerAuthorizedMarketplaceRoutes(mux, handler, verifier)
	registerAuthorizedAuctionRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sweep-auctions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAuctionSweepJob)))
}

func registerAuthorizedLineupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/lineups/validate", RequireAuth(verifier, http.HandlerFunc(handler.ValidateLineup)))
	mux.Handle("PUT /v1/lineups", RequireAuth(verifier, http.HandlerFunc(handler.SubmitLineup)))
}

func registerAuthorizedClassRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/classes/{class}/registration", RequireAuth(verifier, http.HandlerFunc(handler.GetClassRegistration)))
	mux.Handle("POST /v1/classes/{class}/unlock", RequireAuth(verifier, http.HandlerFunc(handler.UnlockClass)))
}

func registerAuthorizedMarketplaceRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/marketplace/staff", RequireAuth(verifier, http.HandlerFunc(handler.BrowseMarketplace)))
	mux.Handle("GET /v1/marketplace/staff/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyStaffRoster)))
	mux.Handle("POST /v1/marketplace/staff/{staffID}/purchase", RequireAuth(verifier, http.HandlerFunc(handler.PurchaseStaff)))
	mux.Handle("PUT /v1/marketplace/staff/{staffID}/assignment", RequireAuth(verifier, http.HandlerFunc(handler.AssignStaff)))
}

func registerAuthorizedAuctionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/auctions", RequireAuth(verifier, http.HandlerFunc(handler.CreateAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/bids", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBid)))
	mux.Handle("POST /v1/auctions/{auctionID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteAuction)))
	mux.Handle("POST /v1/auctions/{auctionID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelAuction)))
}
