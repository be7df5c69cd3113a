package tools

// Tool declares a callable tool and the JSON schema of its arguments.
type Tool struct {
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
	InputSchema Schema `json:"inputSchema" yaml:"inputSchema"`
}

// Schema is the subset of JSON Schema used for tool arguments.
type Schema struct {
	Type       string              `json:"type"               yaml:"type"`
	Properties map[string]Property `json:"properties"         yaml:"properties"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

// Property describes one argument.
type Property struct {
	Type        string    `json:"type"                  yaml:"type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any       `json:"default,omitempty"     yaml:"default,omitempty"`
	Items       *Property `json:"items,omitempty"       yaml:"items,omitempty"`
}

func object(required []string, properties map[string]Property) Schema {
	if properties == nil {
		properties = map[string]Property{}
	}

	return Schema{Type: "object", Properties: properties, Required: required}
}

func str(description string) Property {
	return Property{Type: "string", Description: description}
}

func number(description string, def int) Property {
	return Property{Type: "number", Description: description, Default: def}
}

func boolean(description string) Property {
	return Property{Type: "boolean", Description: description}
}

func stringList(description string) Property {
	return Property{Type: "array", Description: description, Items: &Property{Type: "string"}}
}

func pageProperties(size int) map[string]Property {
	return map[string]Property{
		"page": number("Page number (default: 0)", 0),
		"size": number("Page size", size),
		"sort": stringList("Sort expressions, e.g. ['metadata.creationTimestamp,desc']"),
	}
}

func with(base map[string]Property, extra map[string]Property) map[string]Property {
	for k, v := range extra {
		base[k] = v
	}

	return base
}
