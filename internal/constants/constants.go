package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".halo"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "HALO"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Retry settings.
const (
	// DefaultRetryMax is the default number of retries after the first attempt.
	DefaultRetryMax = 3

	// DefaultRetryDelay is the delay before the first retry.
	DefaultRetryDelay = time.Second

	// RetryMultiplier is the growth factor between consecutive delays.
	RetryMultiplier = 2
)

// Upload settings.
const (
	// DefaultPolicyName is the storage policy used when none is given.
	DefaultPolicyName = "default-policy"

	// DefaultMIMEType is used when the content type cannot be detected.
	DefaultMIMEType = "application/octet-stream"

	// DefaultRemoteFilename is used when a URL has no usable last segment.
	DefaultRemoteFilename = "downloaded_file"

	// GroupGenerateName prefixes server-generated attachment group names.
	GroupGenerateName = "attachment-group-"
)

// API groups.
const (
	ConsoleAPI   = "/apis/api.console.halo.run/v1alpha1"
	UCStorageAPI = "/apis/uc.api.storage.halo.run/v1alpha1"
	StorageAPI   = "/apis/storage.halo.run/v1alpha1"
	ContentAPI   = "/apis/content.halo.run/v1alpha1"

	StorageAPIVersion = "storage.halo.run/v1alpha1"
	ContentAPIVersion = "content.halo.run/v1alpha1"
)

// API paths.
const (
	PathLogin = ConsoleAPI + "/auth/login"

	PathConsoleAttachments   = ConsoleAPI + "/attachments"
	PathAttachmentUpload     = ConsoleAPI + "/attachments/upload"
	PathConsoleUploadFromURL = ConsoleAPI + "/attachments/-/upload-from-url"
	PathUCUploadFromURL      = UCStorageAPI + "/attachments/-/upload-from-url"
	PathAttachments          = StorageAPI + "/attachments"
	PathGroups               = StorageAPI + "/groups"
	PathPolicies             = StorageAPI + "/policies"

	PathCategories   = ContentAPI + "/categories"
	PathTags         = ContentAPI + "/tags"
	PathPosts        = ContentAPI + "/posts"
	PathConsolePosts = ConsoleAPI + "/posts"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Listing defaults.
const (
	// DefaultPageSize is the page size used by list commands.
	DefaultPageSize = 50
)

// Table display settings.
const (
	// MaxTableCellWidth truncates long cell values in table output.
	MaxTableCellWidth = 60
)
