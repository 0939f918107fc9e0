package routes

import (
	"github.com/gin-gonic/gin"

	certificatehandlers "github.com/bagcheck-inc/bagcheck/internal/interfaces/http/handlers/certificate"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
)

type CertificateRouteConfig struct {
	CertificateHandler *certificatehandlers.CertificateHandler
	RateLimiter        *middleware.RateLimiter
	VerifyPerMin       int
}

func SetupCertificateRoutes(engine *gin.Engine, config *CertificateRouteConfig) {
	certificates := engine.Group("/certificates")
	{
		certificates.POST("", config.CertificateHandler.EnsureCertificate)

		// Public lookups by QR token
		verify := config.RateLimiter.Limit("verify", config.VerifyPerMin)
		certificates.GET("/verify/:token", verify, config.CertificateHandler.VerifyCertificate)
		certificates.GET("/:token/document", verify, config.CertificateHandler.GetDocument)
	}
}
