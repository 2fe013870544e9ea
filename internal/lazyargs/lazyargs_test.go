package lazyargs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBrowser struct {
	Headless bool
	SlowMo   int `short:"s" doc:"Delay in ms between operations"`
	ScreenX  int
}

type testConfig struct {
	OutputFolder string      `doc:"The output folder for the documentation"`
	Verbose      bool        `short:"v"`
	PW           testBrowser `flag:"pw"`
}

func newTestConfig() *testConfig {
	return &testConfig{
		OutputFolder: "e2e2documentation",
		PW:           testBrowser{SlowMo: 300, ScreenX: 1920},
	}
}

func TestRegistry_GetReturnsSameFacet(t *testing.T) {
	reg := NewRegistry()

	a := reg.Get("pkg.T", "field")
	b := reg.Get("pkg.T", "field")
	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())

	assert.Empty(t, a.Short)
	assert.Empty(t, a.Doc)
	assert.Nil(t, a.Callback)
	assert.Empty(t, a.ShortFlag())

	reg.SetShort("pkg.T", "field", "f")
	reg.SetDoc("pkg.T", "field", "docs")
	assert.Equal(t, "-f", b.ShortFlag())
	assert.Equal(t, "docs", b.Doc)
}

func TestRegistry_KeyedByOwnerType(t *testing.T) {
	type first struct {
		OutputFolder string `doc:"first folder"`
	}
	type second struct {
		OutputFolder string
	}

	reg := NewRegistry()
	_, err := Build(&first{}, reg)
	require.NoError(t, err)
	schema, err := Build(&second{OutputFolder: "x"}, reg)
	require.NoError(t, err)

	assert.Empty(t, schema.Fields[0].Facet.Doc)
	assert.Equal(t, "first folder", reg.Get(OwnerOf(first{}), "outputFolder").Doc)
}

func TestBind_ScalarLongFlagConsumesTwo(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *testConfig)
	}{
		{
			name: "string",
			args: []string{"a", "--outputFolder", "docs", "b"},
			check: func(t *testing.T, cfg *testConfig) {
				assert.Equal(t, "docs", cfg.OutputFolder)
			},
		},
		{
			name: "number",
			args: []string{"a", "--pw.screenX", "800", "b"},
			check: func(t *testing.T, cfg *testConfig) {
				assert.Equal(t, 800, cfg.PW.ScreenX)
			},
		},
		{
			name: "bool true literal",
			args: []string{"a", "--pw.headless", "true", "b"},
			check: func(t *testing.T, cfg *testConfig) {
				assert.True(t, cfg.PW.Headless)
			},
		},
		{
			name: "bool false literal",
			args: []string{"a", "--verbose", "false", "b"},
			check: func(t *testing.T, cfg *testConfig) {
				assert.False(t, cfg.Verbose)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			rest, err := NewBinder(NewRegistry()).Bind(cfg, tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff([]string{"a", "b"}, rest); diff != "" {
				t.Errorf("remaining tokens (-want +got):\n%s", diff)
			}
			tt.check(t, cfg)
		})
	}
}

func TestBind_BareBoolIsSwitch(t *testing.T) {
	cfg := newTestConfig()
	rest, err := NewBinder(NewRegistry()).Bind(cfg, []string{"--pw.headless", "run.yaml"})
	require.NoError(t, err)

	assert.True(t, cfg.PW.Headless)
	assert.Equal(t, []string{"run.yaml"}, rest)
}

func TestBind_BareBoolAtEnd(t *testing.T) {
	cfg := newTestConfig()
	rest, err := NewBinder(NewRegistry()).Bind(cfg, []string{"run.yaml", "-v"})
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"run.yaml"}, rest)
}

func TestBind_LongAndShortIsAmbiguous(t *testing.T) {
	cfg := newTestConfig()
	args := []string{"--pw.slowMo", "500", "-s", "100"}
	orig := append([]string{}, args...)

	rest, err := NewBinder(NewRegistry()).Bind(cfg, args)
	require.Error(t, err)
	assert.Nil(t, rest)

	var amb *AmbiguousOptionError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, "--pw.slowMo", amb.Long)
	assert.Equal(t, 0, amb.LongIndex)
	assert.Equal(t, "-s", amb.Short)
	assert.Equal(t, 2, amb.ShortIndex)
	assert.Contains(t, err.Error(), "--pw.slowMo, 500, -s, 100")
	assert.True(t, IsBindError(err))

	assert.Equal(t, orig, args)
	assert.Equal(t, 300, cfg.PW.SlowMo)
}

func TestBind_AbsentFieldsKeepDefaults(t *testing.T) {
	cfg := newTestConfig()
	args := []string{"scenario.yaml", "other.yaml"}

	rest, err := NewBinder(NewRegistry()).Bind(cfg, args)
	require.NoError(t, err)
	assert.Equal(t, args, rest)
	assert.Equal(t, newTestConfig(), cfg)
}

func TestBind_SecondPassIsNoop(t *testing.T) {
	binder := NewBinder(NewRegistry())
	cfg := newTestConfig()

	rest, err := binder.Bind(cfg, []string{"--outputFolder", "docs", "-s", "10", "x"})
	require.NoError(t, err)
	bound := *cfg

	rest2, err := binder.Bind(cfg, rest)
	require.NoError(t, err)
	assert.Equal(t, rest, rest2)
	assert.Equal(t, bound, *cfg)
}

func TestBind_NestedLongAndShortAgree(t *testing.T) {
	long := newTestConfig()
	short := newTestConfig()
	binder := NewBinder(NewRegistry())

	_, err := binder.Bind(long, []string{"--pw.slowMo", "500"})
	require.NoError(t, err)
	_, err = binder.Bind(short, []string{"-s", "500"})
	require.NoError(t, err)

	assert.Equal(t, 500, long.PW.SlowMo)
	assert.Equal(t, long, short)
}

func TestBind_MissingValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind Kind
	}{
		{"number", []string{"--pw.slowMo"}, KindNumber},
		{"string", []string{"--outputFolder"}, KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			_, err := NewBinder(NewRegistry()).Bind(cfg, tt.args)

			var mis *MissingValueError
			require.True(t, errors.As(err, &mis))
			assert.Equal(t, tt.args[0], mis.Flag)
			assert.Equal(t, 0, mis.Index)
			assert.Equal(t, tt.kind, mis.Kind)
			assert.Equal(t, newTestConfig(), cfg)
		})
	}
}

func TestBind_InvalidNumberRejected(t *testing.T) {
	cfg := newTestConfig()
	_, err := NewBinder(NewRegistry()).Bind(cfg, []string{"-s", "12abc"})

	var num *InvalidNumberError
	require.True(t, errors.As(err, &num))
	assert.Equal(t, "-s", num.Flag)
	assert.Equal(t, "12abc", num.Value)
	assert.Equal(t, 300, cfg.PW.SlowMo)
}

func TestBind_FailureLeavesConfigUntouched(t *testing.T) {
	cfg := newTestConfig()
	_, err := NewBinder(NewRegistry()).Bind(cfg, []string{"--outputFolder", "docs", "--pw.screenX"})
	require.Error(t, err)
	assert.Equal(t, "e2e2documentation", cfg.OutputFolder)
}

func TestBind_AllowRepeatPrefersLong(t *testing.T) {
	reg := NewRegistry()
	reg.SetAllowRepeat(OwnerOf(testBrowser{}), "slowMo", true)

	cfg := newTestConfig()
	rest, err := NewBinder(reg).Bind(cfg, []string{"-s", "1", "--pw.slowMo", "2"})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.PW.SlowMo)
	assert.Equal(t, []string{"-s", "1"}, rest)
}

func TestBind_CallbackReplacesBinding(t *testing.T) {
	reg := NewRegistry()

	var gotPath []string
	var gotField string
	reg.SetCallback(OwnerOf(testBrowser{}), "screenX", func(path []string, field string, owner any, s *Stream) error {
		gotPath, gotField = path, field
		b := owner.(*testBrowser)
		b.ScreenX = 42
		m, err := s.Locate("--wide", "", false)
		if err != nil || m.Empty() {
			return err
		}
		b.ScreenX = 4096
		return m.Consume(1)
	})

	cfg := newTestConfig()
	rest, err := NewBinder(reg).Bind(cfg, []string{"--pw.screenX", "10", "--wide"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pw"}, gotPath)
	assert.Equal(t, "screenX", gotField)
	assert.Equal(t, 4096, cfg.PW.ScreenX)
	assert.Equal(t, []string{"--pw.screenX", "10"}, rest)
}

func TestBind_CallbackErrorIsWrapped(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	reg.SetCallback(OwnerOf(testConfig{}), "verbose", func([]string, string, any, *Stream) error {
		return boom
	})

	_, err := NewBinder(reg).Bind(newTestConfig(), nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "--verbose")
	assert.False(t, IsBindError(err))
}

func TestBind_UnsupportedField(t *testing.T) {
	type withSlice struct {
		Tags []string
	}
	_, err := NewBinder(NewRegistry()).Bind(&withSlice{}, nil)

	var uns *UnsupportedFieldError
	require.True(t, errors.As(err, &uns))
	assert.Equal(t, "tags", uns.Path)
}

func TestBind_RequiresStructPointer(t *testing.T) {
	_, err := NewBinder(NewRegistry()).Bind(testConfig{}, nil)
	require.Error(t, err)

	var nilCfg *testConfig
	_, err = NewBinder(NewRegistry()).Bind(nilCfg, nil)
	require.Error(t, err)
}

func TestBind_SkipsDashTaggedAndUnexported(t *testing.T) {
	type cfgT struct {
		Name    string
		Ignored string `flag:"-"`
		hidden  string
	}
	cfg := &cfgT{Name: "a", Ignored: "b", hidden: "c"}
	rest, err := NewBinder(NewRegistry()).Bind(cfg, []string{"--ignored", "x", "--name", "n"})
	require.NoError(t, err)

	assert.Equal(t, "n", cfg.Name)
	assert.Equal(t, "b", cfg.Ignored)
	assert.Equal(t, "c", cfg.hidden)
	assert.Equal(t, []string{"--ignored", "x"}, rest)
}

func TestBind_UnsignedAndSizedIntegers(t *testing.T) {
	type sized struct {
		Port  uint16
		Level int8
	}
	cfg := &sized{}
	_, err := NewBinder(NewRegistry()).Bind(cfg, []string{"--port", "8080", "--level", "-3"})
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, int8(-3), cfg.Level)

	_, err = NewBinder(NewRegistry()).Bind(cfg, []string{"--level", "300"})
	var num *InvalidNumberError
	require.True(t, errors.As(err, &num))
}

func TestParse_HelpShortCircuits(t *testing.T) {
	for _, tok := range []string{"--help", "-h"} {
		t.Run(tok, func(t *testing.T) {
			cfg := newTestConfig()
			var out bytes.Buffer

			rest, err := NewBinder(NewRegistry()).Parse(cfg, []string{"--outputFolder", "x", tok}, "usage: e2e2d", &out)
			require.ErrorIs(t, err, ErrHelp)
			assert.Nil(t, rest)
			assert.Equal(t, newTestConfig(), cfg)
			assert.Contains(t, out.String(), "usage: e2e2d\n")
		})
	}
}

func TestRenderHelp_Golden(t *testing.T) {
	text, err := NewBinder(NewRegistry()).Help(newTestConfig())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "help", []byte(text))
}

func TestParse_BindsWithoutHelp(t *testing.T) {
	cfg := newTestConfig()
	var out bytes.Buffer
	rest, err := NewBinder(NewRegistry()).Parse(cfg, []string{"-s", "5", "a.yaml"}, "header", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml"}, rest)
	assert.Equal(t, 5, cfg.PW.SlowMo)
	assert.Empty(t, out.String())
}

func TestBind_AmbiguityAfterConsumedTokensIndexesFullList(t *testing.T) {
	args := []string{"--outputFolder", "docs", "--pw.slowMo", "5", "-s", "6"}
	cfg := newTestConfig()
	_, err := NewBinder(NewRegistry()).Bind(cfg, args)

	var amb *AmbiguousOptionError
	require.True(t, errors.As(err, &amb))
	if diff := cmp.Diff(args, amb.Tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "--pw.slowMo", amb.Tokens[amb.LongIndex])
	assert.Equal(t, "-s", amb.Tokens[amb.ShortIndex])
	assert.Equal(t, "found both '--pw.slowMo' at 2 and '-s' at 4 in --outputFolder, docs, --pw.slowMo, 5, -s, 6", err.Error())
	assert.Equal(t, newTestConfig(), cfg)
}

func TestBind_MissingValueIndexAfterConsumedTokens(t *testing.T) {
	args := []string{"--outputFolder", "docs", "--pw.slowMo"}
	_, err := NewBinder(NewRegistry()).Bind(newTestConfig(), args)

	var mis *MissingValueError
	require.True(t, errors.As(err, &mis))
	assert.Equal(t, 2, mis.Index)
	assert.Equal(t, "--pw.slowMo", args[mis.Index])
}

func TestBind_CallbackSeesEarlierBoundValues(t *testing.T) {
	reg := NewRegistry()
	var seen string
	reg.SetCallback(OwnerOf(testConfig{}), "verbose", func(_ []string, _ string, owner any, _ *Stream) error {
		seen = owner.(*testConfig).OutputFolder
		return nil
	})

	cfg := newTestConfig()
	_, err := NewBinder(reg).Bind(cfg, []string{"--outputFolder", "docs"})
	require.NoError(t, err)
	assert.Equal(t, "docs", seen)
	assert.Equal(t, "docs", cfg.OutputFolder)
}

func TestBind_CallbackEffectsDiscardedOnFailure(t *testing.T) {
	reg := NewRegistry()
	reg.SetCallback(OwnerOf(testConfig{}), "verbose", func(_ []string, _ string, owner any, _ *Stream) error {
		owner.(*testConfig).Verbose = true
		return nil
	})

	cfg := newTestConfig()
	_, err := NewBinder(reg).Bind(cfg, []string{"--outputFolder", "docs", "--pw.slowMo"})

	var mis *MissingValueError
	require.True(t, errors.As(err, &mis))
	assert.False(t, cfg.Verbose)
	assert.Equal(t, newTestConfig(), cfg)
}
