package config

// Sitefile represents the structure of the sitepress.yaml configuration file.
type Sitefile struct {
	Version string         `yaml:"version"`
	Paths   PathsDTO       `yaml:"paths"`
	Scripts []ScriptDTO    `yaml:"scripts"`
	Styles  StylesDTO      `yaml:"styles"`
	Images  ImagesDTO      `yaml:"images"`
	Changed string         `yaml:"changed"`
	Server  ServerDTO      `yaml:"server"`
	Deploy  DeployDTO      `yaml:"deploy"`
	Extra   map[string]any `yaml:",inline"`
}

// PathsDTO holds the overrides of the source and destination trees.
type PathsDTO struct {
	Src  TreeDTO `yaml:"src"`
	Dest TreeDTO `yaml:"dest"`
}

// TreeDTO represents one side of the path tree.
type TreeDTO struct {
	Root    string        `yaml:"root"`
	Pages   string        `yaml:"pages"`
	Styles  string        `yaml:"styles"`
	Scripts string        `yaml:"scripts"`
	Fonts   string        `yaml:"fonts"`
	Favicon string        `yaml:"favicon"`
	Images  ImagePathsDTO `yaml:"images"`
}

// ImagePathsDTO represents the image directories of one side of the path tree.
type ImagePathsDTO struct {
	All       string `yaml:"all"`
	Sprite    string `yaml:"sprite"`
	SpriteSvg string `yaml:"spriteSvg"`
}

// ScriptDTO represents a script bundle entry point.
type ScriptDTO struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// StylesDTO configures the stylesheet pipeline.
type StylesDTO struct {
	IncludePaths []string `yaml:"includePaths"`
	Compiler     string   `yaml:"compiler"`
}

// ImagesDTO configures the image jobs.
type ImagesDTO struct {
	Exclude []string `yaml:"exclude"`
}

// ServerDTO configures the development server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Open *bool  `yaml:"open"`
}

// DeployDTO configures publishing.
type DeployDTO struct {
	Remote      string `yaml:"remote"`
	URL         string `yaml:"url"`
	Branch      string `yaml:"branch"`
	Message     string `yaml:"message"`
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
}
