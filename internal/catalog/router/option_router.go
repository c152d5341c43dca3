package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/covercraft/covershop/internal/catalog/service"
)

// OptionRouter exposes priced add-ons, design variants, their equipment type
// assignments, shipping rates and the quote calculator.
type OptionRouter struct {
	opts    *service.OptionService
	pricing *service.PricingService
}

func NewOptionRouter(opts *service.OptionService, pricing *service.PricingService) *OptionRouter {
	return &OptionRouter{opts: opts, pricing: pricing}
}

func (pr *OptionRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pricing/options", pr.HandleListPricingOptions)
	mux.HandleFunc("POST /api/pricing/options", pr.HandleCreatePricingOption)
	mux.HandleFunc("GET /api/pricing/options/{id}", pr.HandleGetPricingOption)
	mux.HandleFunc("PUT /api/pricing/options/{id}", pr.HandleUpdatePricingOption)
	mux.HandleFunc("DELETE /api/pricing/options/{id}", pr.HandleDeletePricingOption)

	mux.HandleFunc("GET /api/design-options", pr.HandleListDesignOptions)
	mux.HandleFunc("POST /api/design-options", pr.HandleCreateDesignOption)
	mux.HandleFunc("GET /api/design-options/{id}", pr.HandleGetDesignOption)
	mux.HandleFunc("PUT /api/design-options/{id}", pr.HandleUpdateDesignOption)
	mux.HandleFunc("DELETE /api/design-options/{id}", pr.HandleDeleteDesignOption)

	mux.HandleFunc("GET /api/equipment-types/{id}/pricing-options", pr.HandleGetEquipmentTypePricingOptions)
	mux.HandleFunc("PUT /api/equipment-types/{id}/pricing-options", pr.HandleSetEquipmentTypePricingOptions)
	mux.HandleFunc("GET /api/equipment-types/{id}/design-options", pr.HandleGetEquipmentTypeDesignOptions)
	mux.HandleFunc("PUT /api/equipment-types/{id}/design-options", pr.HandleSetEquipmentTypeDesignOptions)

	mux.HandleFunc("GET /api/pricing/shipping-rates", pr.HandleListShippingRates)
	mux.HandleFunc("POST /api/pricing/shipping-rates", pr.HandleCreateShippingRate)
	mux.HandleFunc("DELETE /api/pricing/shipping-rates/{id}", pr.HandleDeleteShippingRate)

	mux.HandleFunc("POST /api/pricing/calculate", pr.HandleCalculate)
}

// HandleListPricingOptions handles GET /api/pricing/options
func (pr *OptionRouter) HandleListPricingOptions(w http.ResponseWriter, r *http.Request) {
	options, err := pr.opts.ListPricingOptions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleCreatePricingOption handles POST /api/pricing/options
func (pr *OptionRouter) HandleCreatePricingOption(w http.ResponseWriter, r *http.Request) {
	var req service.PricingOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	option, err := pr.opts.CreatePricingOption(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, option)
}

// HandleGetPricingOption handles GET /api/pricing/options/{id}
func (pr *OptionRouter) HandleGetPricingOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	option, err := pr.opts.GetPricingOption(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// HandleUpdatePricingOption handles PUT /api/pricing/options/{id}
func (pr *OptionRouter) HandleUpdatePricingOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.PricingOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	option, err := pr.opts.UpdatePricingOption(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// HandleDeletePricingOption handles DELETE /api/pricing/options/{id}
func (pr *OptionRouter) HandleDeletePricingOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pr.opts.DeletePricingOption(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListDesignOptions handles GET /api/design-options
func (pr *OptionRouter) HandleListDesignOptions(w http.ResponseWriter, r *http.Request) {
	options, err := pr.opts.ListDesignOptions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleCreateDesignOption handles POST /api/design-options
func (pr *OptionRouter) HandleCreateDesignOption(w http.ResponseWriter, r *http.Request) {
	var req service.DesignOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	option, err := pr.opts.CreateDesignOption(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, option)
}

// HandleGetDesignOption handles GET /api/design-options/{id}
func (pr *OptionRouter) HandleGetDesignOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	option, err := pr.opts.GetDesignOption(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// HandleUpdateDesignOption handles PUT /api/design-options/{id}
func (pr *OptionRouter) HandleUpdateDesignOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.DesignOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	option, err := pr.opts.UpdateDesignOption(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// HandleDeleteDesignOption handles DELETE /api/design-options/{id}
func (pr *OptionRouter) HandleDeleteDesignOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pr.opts.DeleteDesignOption(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetEquipmentTypePricingOptions handles GET /api/equipment-types/{id}/pricing-options
func (pr *OptionRouter) HandleGetEquipmentTypePricingOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	options, err := pr.opts.PricingOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleSetEquipmentTypePricingOptions handles PUT /api/equipment-types/{id}/pricing-options
// Body: {"optionIds": [1, 2, ...]} — replaces the assignment set.
func (pr *OptionRouter) HandleSetEquipmentTypePricingOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		OptionIDs []uint `json:"optionIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := pr.opts.SetPricingOptionsForEquipmentType(r.Context(), id, req.OptionIDs); err != nil {
		writeServiceError(w, err)
		return
	}
	options, err := pr.opts.PricingOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleGetEquipmentTypeDesignOptions handles GET /api/equipment-types/{id}/design-options
func (pr *OptionRouter) HandleGetEquipmentTypeDesignOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	options, err := pr.opts.DesignOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleSetEquipmentTypeDesignOptions handles PUT /api/equipment-types/{id}/design-options
// Body: {"optionIds": [1, 2, ...]} — replaces the assignment set.
func (pr *OptionRouter) HandleSetEquipmentTypeDesignOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		OptionIDs []uint `json:"optionIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := pr.opts.SetDesignOptionsForEquipmentType(r.Context(), id, req.OptionIDs); err != nil {
		writeServiceError(w, err)
		return
	}
	options, err := pr.opts.DesignOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleListShippingRates handles GET /api/pricing/shipping-rates
func (pr *OptionRouter) HandleListShippingRates(w http.ResponseWriter, r *http.Request) {
	rates, err := pr.opts.ListShippingRates(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// HandleCreateShippingRate handles POST /api/pricing/shipping-rates
func (pr *OptionRouter) HandleCreateShippingRate(w http.ResponseWriter, r *http.Request) {
	var req service.ShippingRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	rate, err := pr.opts.CreateShippingRate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rate)
}

// HandleDeleteShippingRate handles DELETE /api/pricing/shipping-rates/{id}
func (pr *OptionRouter) HandleDeleteShippingRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pr.opts.DeleteShippingRate(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCalculate handles POST /api/pricing/calculate
func (pr *OptionRouter) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req service.PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	breakdown, err := pr.pricing.Calculate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
