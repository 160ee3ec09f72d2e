package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/iris-pipeline/internal/api/middleware"
	"github.com/povarna/iris-pipeline/internal/models"
)

const OpenAPIPath = "/apidocs.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.Validate).
			Doc("Validate an Iris CSV document").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(models.ValidationRequest{}).
			Writes(models.ValidationReport{}).
			Returns(200, "OK", models.ValidationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(422, "Validation Failed", models.ValidationReport{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/reports").
			To(handler.ListReports).
			Doc("List recent validation reports").
			Metadata(restfulspec.KeyOpenAPITags, []string{"reports"}).
			Param(ws.QueryParameter("limit", "Maximum number of reports (default: 20)").DataType("integer").Required(false)).
			Writes([]models.ValidationReport{}).
			Returns(200, "OK", []models.ValidationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Report Store Not Configured", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document for every web service already added.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Iris Validation API",
			Description: "Data quality checks for the Iris dataset",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "validate", Description: "Dataset validation"}},
		{TagProps: spec.TagProps{Name: "reports", Description: "Stored validation reports"}},
	}
}
