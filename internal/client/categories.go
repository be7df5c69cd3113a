package client

import (
	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// CategoriesClient implements the halo.CategoriesClient interface.
type CategoriesClient = ContentClient[halo.Category, halo.CategoryCreateRequest]

// NewCategoriesClient creates a new CategoriesClient.
func NewCategoriesClient(httpClient *http.Client, session resilience.Authenticator) *CategoriesClient {
	return NewContentClient(httpClient, session, constants.PathCategories, "category", buildCategory)
}

func buildCategory(request *halo.CategoryCreateRequest) *halo.Category {
	return &halo.Category{
		TypeMeta: halo.TypeMeta{APIVersion: constants.ContentAPIVersion, Kind: "Category"},
		Metadata: halo.Metadata{GenerateName: "category-"},
		Spec: halo.CategorySpec{
			DisplayName: request.DisplayName,
			Slug:        slugOrDefault(request.Slug, request.DisplayName),
			Description: request.Description,
			Priority:    request.Priority,
			Children:    []string{},
		},
	}
}
