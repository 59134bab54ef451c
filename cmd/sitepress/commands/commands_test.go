package commands_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/cmd/sitepress/commands"
	"go.trai.ch/sitepress/internal/app"
	"go.trai.ch/sitepress/internal/build"
)

type call struct {
	name    string
	opts    app.Options
	job     app.ImageJob
	exclude []string
}

type mockApp struct {
	calls []call
	err   error
}

func (m *mockApp) record(c call) error {
	m.calls = append(m.calls, c)
	return m.err
}

func (m *mockApp) Build(_ context.Context, opts app.Options) error {
	return m.record(call{name: "build", opts: opts})
}

func (m *mockApp) Start(_ context.Context, opts app.Options) error {
	return m.record(call{name: "start", opts: opts})
}

func (m *mockApp) Clean(_ context.Context, opts app.Options) error {
	return m.record(call{name: "clean", opts: opts})
}

func (m *mockApp) Images(_ context.Context, opts app.Options, job app.ImageJob, exclude []string) error {
	return m.record(call{name: "images", opts: opts, job: job, exclude: exclude})
}

func (m *mockApp) Deploy(_ context.Context, opts app.Options) error {
	return m.record(call{name: "deploy", opts: opts})
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	cli.SetArgs(args)
	var out bytes.Buffer
	cli.SetOutput(&out, &out)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_Options(t *testing.T) {
	defaults := app.Options{Root: ".", ConfigFile: commands.DefaultConfigFile}

	tests := []struct {
		args []string
		want call
	}{
		{[]string{"build"}, call{name: "build", opts: defaults}},
		{[]string{"start"}, call{name: "start", opts: defaults}},
		{[]string{"clean"}, call{name: "clean", opts: defaults}},
		{[]string{"deploy"}, call{name: "deploy", opts: defaults}},
		{
			[]string{"--root", "site", "build", "-c", "prod.yaml", "--json"},
			call{name: "build", opts: app.Options{Root: "site", ConfigFile: "prod.yaml", JSON: true}},
		},
		{[]string{"imagemin"}, call{name: "images", opts: defaults, job: app.JobImagemin}},
		{[]string{"webp"}, call{name: "images", opts: defaults, job: app.JobWebP, exclude: []string{}}},
		{
			[]string{"avif", "bg", "slides"},
			call{name: "images", opts: defaults, job: app.JobAVIF, exclude: []string{"bg", "slides"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, tt.args...)
			require.NoError(t, err)
			require.Len(t, m.calls, 1)
			assert.Equal(t, tt.want.name, m.calls[0].name)
			assert.Equal(t, tt.want.opts, m.calls[0].opts)
			assert.Equal(t, tt.want.job, m.calls[0].job)
			assert.ElementsMatch(t, tt.want.exclude, m.calls[0].exclude)
		})
	}
}

func TestCommands_LegacyExclusions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		opts app.Options
	}{
		{
			name: "flag style",
			args: []string{"webp", "--bg", "--slides"},
			want: []string{"bg", "slides"},
			opts: app.Options{Root: ".", ConfigFile: commands.DefaultConfigFile},
		},
		{
			name: "mixed with global flags",
			args: []string{"--root", "site", "avif", "--bg", "--json", "-c", "x.yaml"},
			want: []string{"bg"},
			opts: app.Options{Root: "site", ConfigFile: "x.yaml", JSON: true},
		},
		{
			name: "config value is not an exclusion",
			args: []string{"webp", "--config", "--bg"},
			want: []string{},
			opts: app.Options{Root: ".", ConfigFile: "--bg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, tt.args...)
			require.NoError(t, err)
			require.Len(t, m.calls, 1)
			assert.ElementsMatch(t, tt.want, m.calls[0].exclude)
			assert.Equal(t, tt.opts, m.calls[0].opts)
		})
	}
}

func TestCommands_UnknownFlagOutsideImages(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build", "--bg")
	require.Error(t, err)
	assert.Empty(t, m.calls)
}

func TestCommands_RejectsArguments(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build", "extra")
	require.Error(t, err)
	assert.Empty(t, m.calls)
}

func TestCommands_PropagatesErrors(t *testing.T) {
	m := &mockApp{err: errors.New("simulated error")}
	_, err := execute(t, m, "deploy")
	require.EqualError(t, err, "simulated error")
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	want := "sitepress " + build.Version + " (commit " + build.Commit + ", built " + build.Date +
		", " + runtime.GOOS + "/" + runtime.GOARCH + ")\n"
	assert.Equal(t, want, out)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = execute(t, &mockApp{}, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)
}
