package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/adapters/config"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func clearModeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{domain.ModeEnvVar, domain.LegacyModeEnvVar} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestLoader_Load_Defaults(t *testing.T) {
	clearModeEnv(t)
	root := t.TempDir()

	project, err := newLoader(t).Load(ports.LoadOptions{Root: root})
	require.NoError(t, err)

	assert.Equal(t, root, project.Root)
	assert.Equal(t, domain.ModeDevelopment, project.Mode)
	assert.Equal(t, domain.DefaultScriptEntries(), project.Scripts)
	assert.Equal(t, []string{filepath.Join(root, "node_modules")}, project.Styles.IncludePaths)
	assert.Equal(t, domain.ChangeByMtime, project.Changed)
	assert.Empty(t, project.ImageExclude)

	assert.Equal(t, domain.ServerSettings{Host: "localhost", Port: 3000, Open: true}, project.Server)
	assert.Equal(t, "origin", project.Deploy.Remote)
	assert.Equal(t, "gh-pages", project.Deploy.Branch)
	assert.Equal(t, "Updates", project.Deploy.Message)

	spriteSvg, err := project.Paths.Lookup("src.images.spriteSvg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "img", "sprite", "svg"), spriteSvg)

	sprite, err := project.Paths.Lookup("dest.images.sprite")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "build", "img", "sprite"), sprite)

	_, err = project.Paths.Lookup("dest.pages")
	require.ErrorIs(t, err, domain.ErrUndefinedPath)
}

func TestLoader_Load_Overrides(t *testing.T) {
	clearModeEnv(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
version: "1"
paths:
  src:
    styles: assets/scss
  dest:
    root: public
    images:
      sprite: public/icons
scripts:
  - name: app
    path: js/app.js
styles:
  includePaths: [vendor]
images:
  exclude: [" slides/", bg, bg]
changed: content
server:
  port: 8080
  open: false
deploy:
  branch: pages
  url: https://example.com/site.git
`)

	project, err := newLoader(t).Load(ports.LoadOptions{Root: root, DefaultMode: domain.ModeProduction})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeProduction, project.Mode)

	styles, err := project.Paths.Lookup("src.styles")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "assets", "scss"), styles)

	destRoot, err := project.Paths.Lookup("dest.root")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "public"), destRoot)

	sprite, err := project.Paths.Lookup("dest.images.sprite")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "public", "icons"), sprite)

	pages, err := project.Paths.Lookup("src.pages")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "html"), pages)

	assert.Equal(t, []domain.ScriptEntry{{Name: "app", Path: filepath.Join("js", "app.js")}}, project.Scripts)
	assert.Equal(t, []string{filepath.Join(root, "vendor")}, project.Styles.IncludePaths)
	assert.Equal(t, []string{"bg", "slides"}, project.ImageExclude)
	assert.Equal(t, domain.ChangeByContent, project.Changed)
	assert.Equal(t, domain.ServerSettings{Host: "localhost", Port: 8080, Open: false}, project.Server)
	assert.Equal(t, "pages", project.Deploy.Branch)
	assert.Equal(t, "https://example.com/site.git", project.Deploy.URL)
}

func TestLoader_Load_Mode(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		fallback domain.Mode
		want     domain.Mode
		wantErr  error
	}{
		{name: "fallback", fallback: domain.ModeProduction, want: domain.ModeProduction},
		{name: "empty fallback", want: domain.ModeDevelopment},
		{
			name:     "primary variable",
			env:      map[string]string{domain.ModeEnvVar: "development"},
			fallback: domain.ModeProduction,
			want:     domain.ModeDevelopment,
		},
		{
			name: "legacy variable",
			env:  map[string]string{domain.LegacyModeEnvVar: "production"},
			want: domain.ModeProduction,
		},
		{
			name: "primary wins",
			env:  map[string]string{domain.ModeEnvVar: "dev", domain.LegacyModeEnvVar: "production"},
			want: domain.ModeDevelopment,
		},
		{
			name:    "invalid",
			env:     map[string]string{domain.ModeEnvVar: "staging"},
			wantErr: domain.ErrInvalidMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearModeEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			project, err := newLoader(t).Load(ports.LoadOptions{Root: t.TempDir(), DefaultMode: tt.fallback})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, project.Mode)
		})
	}
}

func TestLoader_Load_EnvFile(t *testing.T) {
	clearModeEnv(t)
	t.Setenv(domain.TokenEnvVar, "from-shell")
	t.Cleanup(func() { _ = os.Unsetenv("SITEPRESS_TEST_VALUE") })

	root := t.TempDir()
	createFile(t, root, domain.EnvFileName, "SITEPRESS_ENV=production\nSITEPRESS_GIT_TOKEN=from-file\nSITEPRESS_TEST_VALUE=loaded\n")

	project, err := newLoader(t).Load(ports.LoadOptions{Root: root})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeProduction, project.Mode)
	assert.Equal(t, "from-shell", os.Getenv(domain.TokenEnvVar))
	assert.Equal(t, "loaded", os.Getenv("SITEPRESS_TEST_VALUE"))
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	clearModeEnv(t)
	root := t.TempDir()
	createFile(t, root, "conf/site.yaml", "server:\n  port: 4000\n")

	project, err := newLoader(t).Load(ports.LoadOptions{Root: root, File: "conf/site.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 4000, project.Server.Port)

	_, err = newLoader(t).Load(ports.LoadOptions{Root: root, File: "missing.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "malformed yaml", content: "paths: [", wantMsg: domain.ErrConfigParseFailed.Error()},
		{name: "empty source root", content: "paths:\n  src:\n    root: \"\"\n", wantErr: nil},
		{name: "unknown change strategy", content: "changed: hash\n", wantErr: domain.ErrInvalidChangeStrategy},
		{name: "port out of range", content: "server:\n  port: 70000\n", wantErr: domain.ErrInvalidPort},
		{name: "script without path", content: "scripts:\n  - name: main\n", wantErr: domain.ErrInvalidScriptEntry},
		{
			name:    "duplicate script",
			content: "scripts:\n  - {name: main, path: a.js}\n  - {name: main, path: b.js}\n",
			wantErr: domain.ErrInvalidScriptEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearModeEnv(t)
			root := t.TempDir()
			createFile(t, root, domain.ConfigFileName, tt.content)

			_, err := newLoader(t).Load(ports.LoadOptions{Root: root})
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
			default:
				// An empty override keeps the default leaf.
				require.NoError(t, err)
			}
		})
	}
}

func TestLoader_Load_WarnsOnUnknownKeys(t *testing.T) {
	clearModeEnv(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "tasks:\n  build: {}\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(`unknown key "tasks" in sitepress.yaml is ignored`).Times(1)

	_, err := config.NewLoader(mockLogger).Load(ports.LoadOptions{Root: root})
	require.NoError(t, err)
}
