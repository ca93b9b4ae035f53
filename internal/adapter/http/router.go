package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/adapter/ws"
	"tableserve/internal/interfaces"
	"tableserve/internal/policy"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth    interfaces.AuthService
	Orders  interfaces.OrderService
	Tables  interfaces.TableService
	Billing interfaces.BillingService
	Menu    interfaces.MenuService
}

// NewRouter wires every route. Three tiers: open endpoints (login, menu
// listing, table bootstrap, the event stream), then everything under the
// auth middleware, gated per operation by the access table.
func NewRouter(svc Services, hub *ws.Hub, lgr logger.Logger) http.Handler {
	authHandler := NewAuthHandler(svc.Auth, lgr)
	orderHandler := NewOrderHandler(svc.Orders, lgr)
	tableHandler := NewTableHandler(svc.Tables, lgr)
	billHandler := NewBillHandler(svc.Billing, lgr)
	menuHandler := NewMenuHandler(svc.Menu, lgr)

	r := mux.NewRouter()
	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))
	r.Use(CORSMiddleware)

	r.HandleFunc("/ws", hub.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/menu", menuHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/tables/initialize", tableHandler.Initialize).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(svc.Auth, lgr))

	authed.HandleFunc("/users", Authorize(policy.OpManageUsers, authHandler.CreateUser)).Methods(http.MethodPost)
	authed.HandleFunc("/users", Authorize(policy.OpManageUsers, authHandler.ListUsers)).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id:[0-9]+}", Authorize(policy.OpManageUsers, authHandler.DeleteUser)).Methods(http.MethodDelete)

	authed.HandleFunc("/menu", Authorize(policy.OpManageMenu, menuHandler.Create)).Methods(http.MethodPost)
	authed.HandleFunc("/menu/{id:[0-9]+}", Authorize(policy.OpManageMenu, menuHandler.Update)).Methods(http.MethodPut)
	authed.HandleFunc("/menu/{id:[0-9]+}", Authorize(policy.OpManageMenu, menuHandler.Delete)).Methods(http.MethodDelete)

	authed.HandleFunc("/orders", Authorize(policy.OpCreateOrder, orderHandler.Create)).Methods(http.MethodPost)
	authed.HandleFunc("/orders", Authorize(policy.OpViewAllOrders, orderHandler.ListAll)).Methods(http.MethodGet)
	authed.HandleFunc("/orders/kitchen", Authorize(policy.OpViewKitchenQueue, orderHandler.KitchenQueue)).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id:[0-9]+}/status", Authorize(policy.OpUpdateOrderStatus, orderHandler.UpdateStatus)).Methods(http.MethodPut)
	authed.HandleFunc("/orders/table/{number:[0-9]+}", Authorize(policy.OpViewTableOrders, orderHandler.ListByTable)).Methods(http.MethodGet)

	authed.HandleFunc("/tables", Authorize(policy.OpViewTables, tableHandler.List)).Methods(http.MethodGet)
	authed.HandleFunc("/tables/{number:[0-9]+}", Authorize(policy.OpViewTables, tableHandler.Get)).Methods(http.MethodGet)

	authed.HandleFunc("/bills", Authorize(policy.OpGenerateBill, billHandler.Generate)).Methods(http.MethodPost)
	authed.HandleFunc("/bills", Authorize(policy.OpViewAllBills, billHandler.ListBills)).Methods(http.MethodGet)
	authed.HandleFunc("/bills/{id:[0-9]+}", Authorize(policy.OpViewBill, billHandler.Get)).Methods(http.MethodGet)
	authed.HandleFunc("/bills/{id:[0-9]+}/paid", Authorize(policy.OpConfirmPayment, billHandler.ConfirmPayment)).Methods(http.MethodPost)
	authed.HandleFunc("/transactions", Authorize(policy.OpViewTransactions, billHandler.ListTransactions)).Methods(http.MethodGet)

	return r
}
