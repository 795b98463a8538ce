package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neutron-labs/inventory-service/api/controllers"
	"github.com/neutron-labs/inventory-service/api/middleware"
	"github.com/neutron-labs/inventory-service/internal/products"
	"github.com/neutron-labs/inventory-service/internal/stock"
	"github.com/neutron-labs/inventory-service/pkg/config"
	"github.com/neutron-labs/inventory-service/pkg/enums"
	"github.com/neutron-labs/inventory-service/pkg/logger"
	"github.com/neutron-labs/inventory-service/pkg/metrics"
)

// NewRouter assembles the full HTTP surface: catalog and stock endpoints,
// health checks, Prometheus metrics, and static image serving.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	readiness map[string]controllers.Pinger,
	productService products.Service,
	stockService stock.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	if cfg.Images.Dir != "" {
		publicPath := cfg.Images.PublicPath
		if publicPath == "" {
			publicPath = "/images"
		}
		fileServer := http.StripPrefix(publicPath, http.FileServer(http.Dir(cfg.Images.Dir)))
		r.Handle(publicPath+"/*", fileServer)
	}

	maxUploadBytes := int64(cfg.Images.MaxUploadMB) << 20

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.GetAllProducts(productService, logg))
		r.Get("/id/{id}", controllers.GetProductByID(productService, logg))
		r.Get("/sku/{sku}", controllers.GetProductBySKU(productService, logg))
		r.Get("/by-ids", controllers.GetProductsByIDs(productService, logg))
		r.Get("/category", controllers.ListProductsByCategories(productService, logg))
		r.Get("/by-brands", controllers.ListProductsByBrands(productService, logg))
		r.Get("/sorted/asc", controllers.ListProductsSorted(productService, logg, string(enums.SortPriceAsc)))
		r.Get("/sorted/desc", controllers.ListProductsSorted(productService, logg, string(enums.SortPriceDesc)))
		r.Get("/by-price-greater-than-equal", controllers.ListProductsByPriceGTE(productService, logg))
		r.Get("/by-price-less-than-equal", controllers.ListProductsByPriceLTE(productService, logg))
		r.Get("/price-range", controllers.ListProductsByPriceRange(productService, logg))

		r.Post("/", controllers.CreateProduct(productService, logg, maxUploadBytes))
		r.Post("/bulk", controllers.CreateProductsBulk(productService, logg))
		r.Put("/update/{id}", controllers.UpdateProduct(productService, logg))
		r.Delete("/delete/by-ids", controllers.DeleteProductsByIDs(productService, logg))
		r.Delete("/delete/{id}", controllers.DeleteProduct(productService, logg))
		r.Delete("/delete-all", controllers.DeleteAllProducts(productService, logg))
	})

	r.Route("/api/stock", func(r chi.Router) {
		r.Post("/reduce/{productId}", controllers.ReduceStock(stockService, logg))
		r.Post("/increase/{productId}", controllers.IncreaseStock(stockService, logg))
		r.Get("/availability/{productId}", controllers.CheckStockAvailability(stockService, logg))
	})

	return r
}
