package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/byteland/bytelog/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "bytelog.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, blogIndexModule).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != blogIndexModule {
		t.Fatalf("expected module %s, got %v", blogIndexModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != blogIndexModule {
		t.Fatalf("expected module field %s, got %v", blogIndexModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := []struct {
		name string
		get  func(interfaces.LoggerProvider) interfaces.Logger
		want string
	}{
		{"blogindex", BlogIndexLogger, blogIndexModule},
		{"postloader", PostLoaderLogger, postLoaderModule},
		{"server", ServerLogger, serverModule},
		{"commands", func(p interfaces.LoggerProvider) interfaces.Logger { return CommandLogger(p, " .blog. ") }, "bytelog.commands.blog"},
		{"commands root", func(p interfaces.LoggerProvider) interfaces.Logger { return CommandLogger(p, "") }, commandsModule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			tc.get(provider)
			if len(provider.requested) != 1 || provider.requested[0] != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, provider.requested)
			}
		})
	}
}

func TestWithPostContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithPostContext(rec, " hello ", "", "/posts/hello.md")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldPostSlug] != "hello" || got[fieldContentPath] != "/posts/hello.md" {
		t.Fatalf("unexpected fields %#v", got)
	}
	if _, ok := got[fieldPostFile]; ok {
		t.Fatalf("expected empty file to be skipped, got %#v", got)
	}
}

func TestWithErrorAttachesMessage(t *testing.T) {
	rec := &recordingLogger{}
	WithError(rec, nil)
	if len(rec.fields) != 0 {
		t.Fatalf("expected nil error to be a no-op")
	}
	WithError(rec, errors.New("boom"))
	if len(rec.fields) != 1 || rec.fields[0]["error"] != "boom" {
		t.Fatalf("unexpected fields %#v", rec.fields)
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2, "a": 3})

	fields := ContextFields(ctx)
	if fields["a"] != 3 || fields["b"] != 2 {
		t.Fatalf("unexpected merged fields %#v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 3 {
		t.Fatalf("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatalf("expected nil fields on bare context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelInfo, "TRACE": LevelTrace, "warning": LevelWarn, " error ": LevelError}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
}
