package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/covercraft/covershop/internal/catalog/service"
)

// OrderRouter exposes customers and their orders.
type OrderRouter struct {
	os *service.OrderService
}

func NewOrderRouter(os *service.OrderService) *OrderRouter {
	return &OrderRouter{os: os}
}

func (or *OrderRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/customers", or.HandleListCustomers)
	mux.HandleFunc("POST /api/customers", or.HandleCreateCustomer)
	mux.HandleFunc("GET /api/customers/{id}", or.HandleGetCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", or.HandleUpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", or.HandleDeleteCustomer)

	mux.HandleFunc("GET /api/orders", or.HandleListOrders)
	mux.HandleFunc("POST /api/orders", or.HandleCreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", or.HandleGetOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", or.HandleDeleteOrder)
}

// HandleListCustomers handles GET /api/customers
func (or *OrderRouter) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := or.os.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// HandleCreateCustomer handles POST /api/customers
func (or *OrderRouter) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	customer, err := or.os.CreateCustomer(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// HandleGetCustomer handles GET /api/customers/{id}
func (or *OrderRouter) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	customer, err := or.os.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// HandleUpdateCustomer handles PUT /api/customers/{id}
func (or *OrderRouter) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	customer, err := or.os.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// HandleDeleteCustomer handles DELETE /api/customers/{id}
func (or *OrderRouter) HandleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := or.os.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListOrders handles GET /api/orders?customerId={id}
func (or *OrderRouter) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryUint(w, r, "customerId")
	if !ok {
		return
	}
	orders, err := or.os.ListOrders(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// HandleCreateOrder handles POST /api/orders
func (or *OrderRouter) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	order, err := or.os.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// HandleGetOrder handles GET /api/orders/{id}
func (or *OrderRouter) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := or.os.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// HandleDeleteOrder handles DELETE /api/orders/{id}
func (or *OrderRouter) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := or.os.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
