package handlers

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/krushiiq/apiserver/internal/services"
	"github.com/krushiiq/apiserver/types"
	"go.uber.org/zap"
)

// Field describes one body or query parameter of a route.
type Field struct {
	Name        string
	Type        string
	Description string
}

// Route is one entry of the API route table. The table drives both the
// chi router and the generated OpenAPI document.
type Route struct {
	Method  string
	Path    string
	Tag     string
	Summary string

	// Query lists required query parameters.
	Query []Field
	// Body lists required JSON body fields.
	Body []Field
	// Upload names the multipart file field, if any.
	Upload string
	// Auth marks routes behind RequireAuth.
	Auth bool

	Status   int
	Response any
	Failures []int

	handle func(h *Handlers) http.HandlerFunc
}

var (
	registerBody = []Field{
		{Name: "username", Type: "string"},
		{Name: "password", Type: "string"},
		{Name: "email", Type: "string"},
	}
	loginBody = []Field{
		{Name: "email", Type: "string"},
		{Name: "password", Type: "string"},
	}
	cropRecommendationBody = []Field{
		{Name: "soil_n", Type: "number", Description: "Nitrogen content"},
		{Name: "soil_p", Type: "number", Description: "Phosphorus content"},
		{Name: "soil_k", Type: "number", Description: "Potassium content"},
		{Name: "ph", Type: "number", Description: "Soil pH"},
		{Name: "location", Type: "string"},
		{Name: "season", Type: "string", Description: "kharif or rabi"},
	}
	yieldPredictionBody = []Field{
		{Name: "crop", Type: "string"},
		{Name: "area_acres", Type: "number"},
		{Name: "location", Type: "string", Description: "Region such as north or south"},
	}
	pesticideRecommendationBody = []Field{
		{Name: "disease", Type: "string"},
		{Name: "crop", Type: "string"},
		{Name: "area_acres", Type: "number"},
	}
	diseaseDetectionBody = []Field{
		{Name: "image_url", Type: "string"},
		{Name: "crop", Type: "string"},
	}
	farmerProfileBody = []Field{
		{Name: "name", Type: "string"},
		{Name: "location", Type: "string"},
		{Name: "land_acres", Type: "number"},
		{Name: "language", Type: "string"},
	}
	profitEstimationBody = []Field{
		{Name: "crop", Type: "string"},
		{Name: "estimated_yield", Type: "number", Description: "Expected harvest in quintals"},
		{Name: "price_per_quintal", Type: "number"},
		{Name: "cost_per_quintal", Type: "number"},
	}
	aiCropBody = []Field{
		{Name: "location", Type: "string"},
		{Name: "month", Type: "string"},
	}
	aiPesticideBody = []Field{
		{Name: "crop", Type: "string"},
		{Name: "disease", Type: "string"},
	}
)

var routeTable = []Route{
	{
		Method: http.MethodPost, Path: "/register", Tag: "Auth", Summary: "Register a new user",
		Body: registerBody, Status: http.StatusCreated, Response: RegisterResponse{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Auth.Register },
	},
	{
		Method: http.MethodPost, Path: "/login", Tag: "Auth", Summary: "Exchange credentials for a bearer token",
		Body: loginBody, Status: http.StatusOK, Response: LoginResponse{},
		Failures: []int{http.StatusBadRequest, http.StatusUnauthorized},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Auth.Login },
	},
	{
		Method: http.MethodGet, Path: "/me", Tag: "Auth", Summary: "Current user",
		Auth: true, Status: http.StatusOK, Response: types.User{},
		Failures: []int{http.StatusUnauthorized},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Auth.Me },
	},
	{
		Method: http.MethodPost, Path: "/crop-recommendation", Tag: "Crop", Summary: "Recommend crops for a soil sample",
		Body: cropRecommendationBody, Status: http.StatusOK, Response: types.CropAdvice{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.RecommendCrop },
	},
	{
		Method: http.MethodPost, Path: "/yield-prediction", Tag: "Crop", Summary: "Estimate the harvest of a plot",
		Body: yieldPredictionBody, Status: http.StatusOK, Response: types.YieldEstimate{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.PredictYield },
	},
	{
		Method: http.MethodPost, Path: "/pesticide-recommendation", Tag: "Pesticide", Summary: "Recommend a pesticide for a disease",
		Body: pesticideRecommendationBody, Status: http.StatusOK, Response: types.PesticideAdvice{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.RecommendPesticide },
	},
	{
		Method: http.MethodPost, Path: "/disease-detection", Tag: "Disease", Summary: "Detect a crop disease from an image URL",
		Body: diseaseDetectionBody, Status: http.StatusOK, Response: types.DiseaseDetection{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.DetectDisease },
	},
	{
		Method: http.MethodGet, Path: "/farmer-profile", Tag: "Farmer", Summary: "Get a farmer profile by name",
		Query: []Field{{Name: "name", Type: "string"}}, Status: http.StatusOK, Response: types.FarmerProfile{},
		Failures: []int{http.StatusBadRequest, http.StatusNotFound},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Farmer.GetProfile },
	},
	{
		Method: http.MethodPost, Path: "/farmer-profile", Tag: "Farmer", Summary: "Create or replace a farmer profile",
		Body: farmerProfileBody, Status: http.StatusOK, Response: StatusResponse{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Farmer.SaveProfile },
	},
	{
		Method: http.MethodGet, Path: "/market-prices", Tag: "Market", Summary: "Reference market price of a crop",
		Query: []Field{{Name: "crop", Type: "string"}}, Status: http.StatusOK, Response: types.MarketPrice{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.MarketPrices },
	},
	{
		Method: http.MethodPost, Path: "/profit-estimation", Tag: "Market", Summary: "Estimate profit for a harvest",
		Body: profitEstimationBody, Status: http.StatusOK, Response: types.ProfitEstimate{},
		Failures: []int{http.StatusBadRequest},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Advisory.EstimateProfit },
	},
	{
		Method: http.MethodGet, Path: "/weather", Tag: "Weather", Summary: "Current weather at a location",
		Query: []Field{{Name: "location", Type: "string"}}, Status: http.StatusOK, Response: types.CurrentWeather{},
		Failures: []int{http.StatusBadRequest, http.StatusInternalServerError},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Weather.Current },
	},
	{
		Method: http.MethodGet, Path: "/weather-forecast", Tag: "Weather", Summary: "Seven day forecast at a location",
		Query: []Field{{Name: "location", Type: "string"}}, Status: http.StatusOK, Response: types.Forecast{},
		Failures: []int{http.StatusBadRequest, http.StatusInternalServerError},
		handle:   func(h *Handlers) http.HandlerFunc { return h.Weather.Forecast },
	},
	{
		Method: http.MethodPost, Path: "/ai/crop-recommendation", Tag: "AI", Summary: "Ask the model for a crop to grow",
		Body: aiCropBody, Status: http.StatusOK, Response: types.AIRecommendation{},
		Failures: []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable},
		handle:   func(h *Handlers) http.HandlerFunc { return h.AI.RecommendCrop },
	},
	{
		Method: http.MethodPost, Path: "/ai/disease-detection", Tag: "AI", Summary: "Ask the model to diagnose a crop image",
		Upload: formFieldImage, Status: http.StatusOK, Response: types.AIDetection{},
		Failures: []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable},
		handle:   func(h *Handlers) http.HandlerFunc { return h.AI.DetectDisease },
	},
	{
		Method: http.MethodPost, Path: "/ai/pesticide-recommendation", Tag: "AI", Summary: "Ask the model for a pesticide",
		Body: aiPesticideBody, Status: http.StatusOK, Response: types.AIRecommendation{},
		Failures: []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable},
		handle:   func(h *Handlers) http.HandlerFunc { return h.AI.RecommendPesticide },
	},
}

// Routes returns the API route table.
func Routes() []Route {
	return slices.Clone(routeTable)
}

// Handlers groups the handlers the route table dispatches to.
type Handlers struct {
	Auth     *AuthHandler
	Advisory *AdvisoryHandler
	Farmer   *FarmerHandler
	Weather  *WeatherHandler
	AI       *AIHandler
}

// Services are the use-cases the handlers call into.
type Services struct {
	Users     *services.UserService
	Advisory  *services.AdvisoryService
	Farmers   *services.FarmerService
	Weather   *services.WeatherService
	Assistant *services.AssistantService
}

func NewHandlers(svc Services, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		Auth:     NewAuthHandler(svc.Users, logger),
		Advisory: NewAdvisoryHandler(svc.Advisory, logger),
		Farmer:   NewFarmerHandler(svc.Farmers, logger),
		Weather:  NewWeatherHandler(svc.Weather, logger),
		AI:       NewAIHandler(svc.Assistant, logger),
	}
}

// Mount registers every route of the table on r.
func (h *Handlers) Mount(r chi.Router) {
	for _, route := range routeTable {
		handler := route.handle(h)
		if route.Auth {
			r.With(h.Auth.RequireAuth).Method(route.Method, route.Path, handler)
			continue
		}
		r.Method(route.Method, route.Path, handler)
	}
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
