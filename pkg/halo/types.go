package halo

import (
	"time"
)

// Metadata is the Kubernetes-style object metadata carried by every Halo
// extension.
type Metadata struct {
	Name              string            `json:"name,omitempty"              yaml:"name,omitempty"`
	GenerateName      string            `json:"generateName,omitempty"      yaml:"generateName,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"            yaml:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"       yaml:"annotations,omitempty"`
	Version           *int64            `json:"version,omitempty"           yaml:"version,omitempty"`
	CreationTimestamp *time.Time        `json:"creationTimestamp,omitempty" yaml:"creationTimestamp,omitempty"`
	DeletionTimestamp *time.Time        `json:"deletionTimestamp,omitempty" yaml:"deletionTimestamp,omitempty"`
}

// TypeMeta identifies the kind of an extension.
type TypeMeta struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind"       yaml:"kind"`
}

// ListResponse represents a paginated list response.
type ListResponse[T any] struct {
	Page        int  `json:"page"        yaml:"page"`
	Size        int  `json:"size"        yaml:"size"`
	Total       int  `json:"total"       yaml:"total"`
	TotalPages  int  `json:"totalPages"  yaml:"totalPages"`
	First       bool `json:"first"       yaml:"first"`
	Last        bool `json:"last"        yaml:"last"`
	HasNext     bool `json:"hasNext"     yaml:"hasNext"`
	HasPrevious bool `json:"hasPrevious" yaml:"hasPrevious"`
	Items       []T  `json:"items"       yaml:"items"`
}

// Attachment represents a stored file.
type Attachment struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata         `json:"metadata"         yaml:"metadata"`
	Spec     AttachmentSpec   `json:"spec"             yaml:"spec"`
	Status   AttachmentStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// AttachmentSpec holds the attachment's user-facing properties.
type AttachmentSpec struct {
	DisplayName string   `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	GroupName   string   `json:"groupName,omitempty"   yaml:"groupName,omitempty"`
	PolicyName  string   `json:"policyName,omitempty"  yaml:"policyName,omitempty"`
	OwnerName   string   `json:"ownerName,omitempty"   yaml:"ownerName,omitempty"`
	MediaType   string   `json:"mediaType,omitempty"   yaml:"mediaType,omitempty"`
	Size        int64    `json:"size,omitempty"        yaml:"size,omitempty"`
	Tags        []string `json:"tags,omitempty"        yaml:"tags,omitempty"`
}

// AttachmentStatus holds server computed attachment state.
type AttachmentStatus struct {
	Permalink string `json:"permalink,omitempty" yaml:"permalink,omitempty"`
}

// UploadResult is the outcome of a local file upload. When the server
// accepted the file but answered with a body that is not JSON, Attachment is
// nil, Status is UploadStatusNoJSON and Text carries the raw body.
type UploadResult struct {
	Attachment *Attachment `json:"attachment,omitempty" yaml:"attachment,omitempty"`
	Status     string      `json:"status,omitempty"     yaml:"status,omitempty"`
	Text       string      `json:"text,omitempty"       yaml:"text,omitempty"`
}

// UploadStatusNoJSON marks an upload whose response body could not be parsed.
const UploadStatusNoJSON = "success_but_no_json"

// Degraded reports whether the upload response could not be decoded.
func (r *UploadResult) Degraded() bool {
	return r.Status == UploadStatusNoJSON
}

// Group represents an attachment group.
type Group struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata    `json:"metadata"         yaml:"metadata"`
	Spec     GroupSpec   `json:"spec"             yaml:"spec"`
	Status   GroupStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// GroupSpec holds attachment group properties.
type GroupSpec struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// GroupStatus holds server computed group state.
type GroupStatus struct {
	UpdateTimestamp  *time.Time `json:"updateTimestamp,omitempty"  yaml:"updateTimestamp,omitempty"`
	TotalAttachments int64      `json:"totalAttachments,omitempty" yaml:"totalAttachments,omitempty"`
}

// Policy represents a storage policy.
type Policy struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata   `json:"metadata" yaml:"metadata"`
	Spec     PolicySpec `json:"spec"     yaml:"spec"`
}

// PolicySpec holds storage policy properties.
type PolicySpec struct {
	DisplayName   string `json:"displayName"             yaml:"displayName"`
	TemplateName  string `json:"templateName"            yaml:"templateName"`
	ConfigMapName string `json:"configMapName,omitempty" yaml:"configMapName,omitempty"`
}

// Category represents a post category.
type Category struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata       `json:"metadata"         yaml:"metadata"`
	Spec     CategorySpec   `json:"spec"             yaml:"spec"`
	Status   CategoryStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// CategorySpec holds category properties.
type CategorySpec struct {
	DisplayName string   `json:"displayName"           yaml:"displayName"`
	Slug        string   `json:"slug"                  yaml:"slug"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Cover       string   `json:"cover,omitempty"       yaml:"cover,omitempty"`
	Template    string   `json:"template,omitempty"    yaml:"template,omitempty"`
	Priority    int      `json:"priority"              yaml:"priority"`
	Children    []string `json:"children"              yaml:"children"`
}

// CategoryStatus holds server computed category state.
type CategoryStatus struct {
	Permalink        string `json:"permalink,omitempty"        yaml:"permalink,omitempty"`
	PostCount        int    `json:"postCount,omitempty"        yaml:"postCount,omitempty"`
	VisiblePostCount int    `json:"visiblePostCount,omitempty" yaml:"visiblePostCount,omitempty"`
}

// CategoryCreateRequest is the input for creating a category.
type CategoryCreateRequest struct {
	DisplayName string `json:"displayName"           validate:"required"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority,omitempty"    validate:"gte=0"`
}

// Tag represents a post tag.
type Tag struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata  `json:"metadata"         yaml:"metadata"`
	Spec     TagSpec   `json:"spec"             yaml:"spec"`
	Status   TagStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// TagSpec holds tag properties.
type TagSpec struct {
	DisplayName string `json:"displayName"     yaml:"displayName"`
	Slug        string `json:"slug"            yaml:"slug"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Cover       string `json:"cover,omitempty" yaml:"cover,omitempty"`
}

// TagStatus holds server computed tag state.
type TagStatus struct {
	Permalink string `json:"permalink,omitempty" yaml:"permalink,omitempty"`
	PostCount int    `json:"postCount,omitempty" yaml:"postCount,omitempty"`
}

// TagCreateRequest is the input for creating a tag.
type TagCreateRequest struct {
	DisplayName string `json:"displayName"     validate:"required"`
	Slug        string `json:"slug,omitempty"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Post represents a post extension.
type Post struct {
	TypeMeta `yaml:",inline"`

	Metadata Metadata   `json:"metadata"         yaml:"metadata"`
	Spec     PostSpec   `json:"spec"             yaml:"spec"`
	Status   PostStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// PostSpec holds post properties.
type PostSpec struct {
	Title           string      `json:"title"                     yaml:"title"`
	Slug            string      `json:"slug"                      yaml:"slug"`
	Owner           string      `json:"owner,omitempty"           yaml:"owner,omitempty"`
	Template        string      `json:"template,omitempty"        yaml:"template,omitempty"`
	Cover           string      `json:"cover,omitempty"           yaml:"cover,omitempty"`
	Deleted         bool        `json:"deleted"                   yaml:"deleted"`
	Publish         bool        `json:"publish"                   yaml:"publish"`
	PublishTime     *time.Time  `json:"publishTime,omitempty"     yaml:"publishTime,omitempty"`
	Pinned          bool        `json:"pinned"                    yaml:"pinned"`
	AllowComment    bool        `json:"allowComment"              yaml:"allowComment"`
	Visible         string      `json:"visible"                   yaml:"visible"`
	Priority        int         `json:"priority"                  yaml:"priority"`
	Excerpt         PostExcerpt `json:"excerpt"                   yaml:"excerpt"`
	Categories      []string    `json:"categories,omitempty"      yaml:"categories,omitempty"`
	Tags            []string    `json:"tags,omitempty"            yaml:"tags,omitempty"`
	HeadSnapshot    string      `json:"headSnapshot,omitempty"    yaml:"headSnapshot,omitempty"`
	BaseSnapshot    string      `json:"baseSnapshot,omitempty"    yaml:"baseSnapshot,omitempty"`
	ReleaseSnapshot string      `json:"releaseSnapshot,omitempty" yaml:"releaseSnapshot,omitempty"`
}

// PostExcerpt controls how the post summary is produced.
type PostExcerpt struct {
	AutoGenerate bool   `json:"autoGenerate"  yaml:"autoGenerate"`
	Raw          string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// PostStatus holds server computed post state.
type PostStatus struct {
	Phase     string `json:"phase,omitempty"     yaml:"phase,omitempty"`
	Permalink string `json:"permalink,omitempty" yaml:"permalink,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"   yaml:"excerpt,omitempty"`
}

// ListedPost is a post as returned by the console list endpoint, with its
// resolved categories and tags.
type ListedPost struct {
	Post       Post       `json:"post"                 yaml:"post"`
	Categories []Category `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tags       []Tag      `json:"tags,omitempty"       yaml:"tags,omitempty"`
	Stats      PostStats  `json:"stats"                yaml:"stats"`
}

// PostStats holds visit and comment counters.
type PostStats struct {
	Visit           int `json:"visit"           yaml:"visit"`
	Upvote          int `json:"upvote"          yaml:"upvote"`
	TotalComment    int `json:"totalComment"    yaml:"totalComment"`
	ApprovedComment int `json:"approvedComment" yaml:"approvedComment"`
}

// PostCreateRequest is the input for creating a draft post.
type PostCreateRequest struct {
	Title      string   `validate:"required"`
	Slug       string
	Content    string
	RawType    string   `validate:"omitempty,oneof=markdown html"`
	Excerpt    string
	Categories []string
	Tags       []string
	Cover      string
	Publish    bool
}

// PostContent is the editable content of a post as accepted by the console.
type PostContent struct {
	Raw     string `json:"raw"     yaml:"raw"`
	Content string `json:"content" yaml:"content"`
	RawType string `json:"rawType" yaml:"rawType"`
}

// PostRequest is the console payload for creating a post with content.
type PostRequest struct {
	Post    Post        `json:"post"`
	Content PostContent `json:"content"`
}

// UploadTarget describes what to upload and where to put it.
type UploadTarget struct {
	// FilePath is a local file to upload. Mutually exclusive with URL.
	FilePath string `validate:"required_without=URL,excluded_with=URL"`
	// URL is a remote file for the server to fetch.
	URL string `validate:"required_without=FilePath,excluded_with=FilePath"`
	// PolicyName is the storage policy. Defaults to DefaultPolicyName.
	PolicyName string
	// GroupName is the attachment group. Optional.
	GroupName string
}
