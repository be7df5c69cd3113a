package client

import (
	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// TagsClient implements the halo.TagsClient interface.
type TagsClient = ContentClient[halo.Tag, halo.TagCreateRequest]

// NewTagsClient creates a new TagsClient.
func NewTagsClient(httpClient *http.Client, session resilience.Authenticator) *TagsClient {
	return NewContentClient(httpClient, session, constants.PathTags, "tag", buildTag)
}

func buildTag(request *halo.TagCreateRequest) *halo.Tag {
	return &halo.Tag{
		TypeMeta: halo.TypeMeta{APIVersion: constants.ContentAPIVersion, Kind: "Tag"},
		Metadata: halo.Metadata{GenerateName: "tag-"},
		Spec: halo.TagSpec{
			DisplayName: request.DisplayName,
			Slug:        slugOrDefault(request.Slug, request.DisplayName),
			Color:       request.Color,
		},
	}
}
