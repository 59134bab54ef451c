// Package config provides the configuration loader for sitepress.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the development server port.
	DefaultPort = 3000
	// DefaultHost is the development server host.
	DefaultHost = "localhost"
	// DefaultRemote is the git remote deployed to.
	DefaultRemote = "origin"
	// DefaultBranch is the branch that receives the build output.
	DefaultBranch = "gh-pages"
	// DefaultMessage is the deploy commit message.
	DefaultMessage = "Updates"
	// DefaultAuthorName is the deploy commit author.
	DefaultAuthorName = "sitepress"
	// DefaultAuthorEmail is the deploy commit author email.
	DefaultAuthorEmail = "sitepress@localhost"
	// DefaultIncludePath is the Sass include path.
	DefaultIncludePath = "node_modules"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the project configuration. The .env file in the project root
// is loaded first without overriding variables that are already set. A
// missing sitepress.yaml yields the defaults unless the file was named
// explicitly.
func (l *Loader) Load(opts ports.LoadOptions) (*domain.Project, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	if err := loadEnvFile(root); err != nil {
		return nil, err
	}

	var sitefile Sitefile
	configPath, explicit := configFile(root, opts.File)
	if err := readAndUnmarshalYAML(configPath, &sitefile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			l.Logger.Info(fmt.Sprintf("no %s found, using defaults", domain.ConfigFileName))
		} else {
			return nil, zerr.With(err, "path", configPath)
		}
	}

	for key := range sitefile.Extra {
		l.Logger.Warn(fmt.Sprintf("unknown key %q in %s is ignored", key, filepath.Base(configPath)))
	}

	mode, err := resolveMode(opts.DefaultMode)
	if err != nil {
		return nil, err
	}

	return l.buildProject(root, mode, &sitefile)
}

func (l *Loader) buildProject(root string, mode domain.Mode, sitefile *Sitefile) (*domain.Project, error) {
	paths, err := domain.NewPaths(root,
		domain.DefaultSource().Merge(sitefile.Paths.Src.toDomain()),
		domain.DefaultDestination().Merge(sitefile.Paths.Dest.toDomain()),
	)
	if err != nil {
		return nil, err
	}

	scripts, err := resolveScripts(sitefile.Scripts)
	if err != nil {
		return nil, err
	}

	changed, err := resolveChangeStrategy(sitefile.Changed)
	if err != nil {
		return nil, err
	}

	server, err := resolveServer(sitefile.Server)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Root:         root,
		Mode:         mode,
		Paths:        paths,
		Scripts:      scripts,
		Styles:       resolveStyles(root, sitefile.Styles),
		ImageExclude: normalizeExclusions(sitefile.Images.Exclude),
		Changed:      changed,
		Server:       server,
		Deploy:       resolveDeploy(sitefile.Deploy),
	}, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}
	return abs, nil
}

func configFile(root, file string) (string, bool) {
	if file == "" {
		return filepath.Join(root, domain.ConfigFileName), false
	}
	if filepath.IsAbs(file) {
		return file, true
	}
	return filepath.Join(root, file), true
}

func loadEnvFile(root string) error {
	path := filepath.Join(root, domain.EnvFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileFailed.Error()), "path", path)
	}

	if err := godotenv.Load(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileFailed.Error()), "path", path)
	}
	return nil
}

func resolveMode(fallback domain.Mode) (domain.Mode, error) {
	if fallback == "" {
		fallback = domain.ModeDevelopment
	}

	value, ok := os.LookupEnv(domain.ModeEnvVar)
	if !ok {
		value = os.Getenv(domain.LegacyModeEnvVar)
	}
	return domain.ParseMode(value, fallback)
}

func resolveScripts(dtos []ScriptDTO) ([]domain.ScriptEntry, error) {
	if len(dtos) == 0 {
		return domain.DefaultScriptEntries(), nil
	}

	seen := make(map[string]bool, len(dtos))
	entries := make([]domain.ScriptEntry, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Name == "" || dto.Path == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidScriptEntry, "script entry needs a name and a path"),
				"name", dto.Name)
		}
		if seen[dto.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidScriptEntry, "duplicate script entry"), "name", dto.Name)
		}
		seen[dto.Name] = true
		entries = append(entries, domain.ScriptEntry{Name: dto.Name, Path: filepath.FromSlash(dto.Path)})
	}
	return entries, nil
}

func resolveChangeStrategy(s string) (domain.ChangeStrategy, error) {
	switch domain.ChangeStrategy(strings.ToLower(s)) {
	case "", domain.ChangeByMtime:
		return domain.ChangeByMtime, nil
	case domain.ChangeByContent:
		return domain.ChangeByContent, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidChangeStrategy, "unsupported change strategy"), "changed", s)
	}
}

func resolveStyles(root string, dto StylesDTO) domain.StyleSettings {
	includes := dto.IncludePaths
	if len(includes) == 0 {
		includes = []string{DefaultIncludePath}
	}

	resolved := make([]string, len(includes))
	for i, p := range includes {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		resolved[i] = filepath.Clean(p)
	}

	return domain.StyleSettings{IncludePaths: resolved, Compiler: dto.Compiler}
}

func resolveServer(dto ServerDTO) (domain.ServerSettings, error) {
	settings := domain.ServerSettings{Host: dto.Host, Port: dto.Port, Open: true}
	if settings.Host == "" {
		settings.Host = DefaultHost
	}
	if settings.Port == 0 {
		settings.Port = DefaultPort
	}
	if settings.Port < 0 || settings.Port > 65535 {
		return domain.ServerSettings{}, zerr.With(zerr.Wrap(domain.ErrInvalidPort, "port out of range"),
			"port", dto.Port)
	}
	if dto.Open != nil {
		settings.Open = *dto.Open
	}
	return settings, nil
}

func resolveDeploy(dto DeployDTO) domain.DeploySettings {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return domain.DeploySettings{
		Remote:      pick(dto.Remote, DefaultRemote),
		URL:         dto.URL,
		Branch:      pick(dto.Branch, DefaultBranch),
		Message:     pick(dto.Message, DefaultMessage),
		AuthorName:  pick(dto.AuthorName, DefaultAuthorName),
		AuthorEmail: pick(dto.AuthorEmail, DefaultAuthorEmail),
	}
}

// normalizeExclusions trims, sorts and deduplicates exclusions. Whether each
// one names a directory is checked by the image tasks against the tree.
func normalizeExclusions(exclude []string) []string {
	if len(exclude) == 0 {
		return nil
	}

	out := make([]string, 0, len(exclude))
	for _, e := range exclude {
		e = strings.Trim(strings.TrimSpace(e), "/")
		if e != "" {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (t TreeDTO) toDomain() domain.Tree {
	return domain.Tree{
		Root:    t.Root,
		Pages:   t.Pages,
		Styles:  t.Styles,
		Scripts: t.Scripts,
		Fonts:   t.Fonts,
		Favicon: t.Favicon,
		Images: domain.ImagePaths{
			All:       t.Images.All,
			Sprite:    t.Images.Sprite,
			SpriteSvg: t.Images.SpriteSvg,
		},
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the operator
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
