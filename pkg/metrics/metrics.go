// Package metrics expone contadores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector agrupa las métricas sobre un registro propio (no el global),
// así cada instancia es independiente.
type Collector struct {
	registry      *prometheus.Registry
	invoicesSaved *prometheus.CounterVec
	pdfsRendered  prometheus.Counter
	httpRequests  *prometheus.CounterVec
}

// NewCollector crea y registra las métricas.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		invoicesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_saved_total",
			Help:      "Facturas guardadas, por estado.",
		}, []string{"status"}),
		pdfsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_pdfs_rendered_total",
			Help:      "PDFs de factura generados.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas, por método y código.",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(c.invoicesSaved, c.pdfsRendered, c.httpRequests)
	return c
}

// InvoiceSaved incrementa el contador de facturas guardadas.
func (c *Collector) InvoiceSaved(status string) {
	c.invoicesSaved.WithLabelValues(status).Inc()
}

// PDFRendered incrementa el contador de PDFs.
func (c *Collector) PDFRendered() {
	c.pdfsRendered.Inc()
}

// HTTPRequest registra una petición atendida.
func (c *Collector) HTTPRequest(method string, code int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Registry devuelve el registro (para tests).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler devuelve el handler de exposición para /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
